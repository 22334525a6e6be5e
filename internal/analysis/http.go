package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/HEMANT2027/StreamSightAI/internal/config"
	"github.com/HEMANT2027/StreamSightAI/internal/domain"
	"github.com/HEMANT2027/StreamSightAI/internal/logging"
)

// HTTPClient talks to the analysis service over HTTP. It is stateless
// between calls; the only per-call state is the in-flight request context.
type HTTPClient struct {
	baseURL       string
	videoField    string
	authToken     string
	submitTimeout time.Duration
	healthTimeout time.Duration
	client        *http.Client
	log           *logging.Logger
}

// NewHTTPClient builds a client from the analysis config.
func NewHTTPClient(cfg config.AnalysisConfig, log *logging.Logger) *HTTPClient {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	videoField := cfg.VideoField
	if videoField == "" {
		videoField = config.DefaultVideoField
	}
	submitTimeout := time.Duration(cfg.SubmitTimeoutSeconds) * time.Second
	if submitTimeout <= 0 {
		submitTimeout = config.DefaultSubmitTimeout * time.Second
	}
	healthTimeout := time.Duration(cfg.HealthTimeoutSeconds) * time.Second
	if healthTimeout <= 0 {
		healthTimeout = config.DefaultHealthTimeout * time.Second
	}

	return &HTTPClient{
		baseURL:       baseURL,
		videoField:    videoField,
		authToken:     cfg.AuthToken,
		submitTimeout: submitTimeout,
		healthTimeout: healthTimeout,
		client:        &http.Client{},
		log:           log.Sub("analysis"),
	}
}

// Name identifies the endpoint for logging.
func (c *HTTPClient) Name() string {
	if u, err := url.Parse(c.baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return c.baseURL
}

// Submit sends a multipart inference request and normalizes the reply to
// plain text.
func (c *HTTPClient) Submit(ctx context.Context, prompt string, media *domain.Attachment, sessionID string) (string, error) {
	body, contentType, err := c.buildForm(prompt, media, sessionID)
	if err != nil {
		return "", &UnexpectedError{Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/infer", body)
	if err != nil {
		return "", &UnexpectedError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", contentType)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	c.log.Debug().
		Str("session", sessionID).
		Bool("hasMedia", media != nil).
		Msg("submitting inference request")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UnexpectedError{Message: fmt.Sprintf("reading response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ServerError{
			Status:  resp.StatusCode,
			Message: extractDetail(raw),
		}
	}

	c.log.Debug().
		Str("session", sessionID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("inference request complete")

	return normalize(raw), nil
}

// Health probes the liveness endpoint. Only an explicit {"status":"ok"}
// counts as healthy; any failure, including timeout, yields false.
func (c *HTTPClient) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Msg("health probe failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false
	}
	return payload.Status == "ok"
}

// buildForm assembles the multipart body: prompt and session_id always, the
// media payload under the configured field name when present.
func (c *HTTPClient) buildForm(prompt string, media *domain.Attachment, sessionID string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("prompt", prompt); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("session_id", sessionID); err != nil {
		return nil, "", err
	}

	if media != nil {
		part, err := w.CreateFormFile(c.videoField, media.Filename)
		if err != nil {
			return nil, "", err
		}
		if err := copyPayload(part, media); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func copyPayload(dst io.Writer, media *domain.Attachment) error {
	if len(media.Data) > 0 {
		_, err := dst.Write(media.Data)
		return err
	}
	if media.Path != "" {
		f, err := os.Open(media.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(dst, f)
		return err
	}
	return nil
}

// classifyTransport maps a transport-level failure to the error taxonomy.
func classifyTransport(err error) error {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrTimeout, err)
	case errors.As(err, &ne) && ne.Timeout():
		return fmt.Errorf("%w: %s", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %s", ErrNetwork, err)
	}
}

// extractDetail pulls a human-readable message out of an error body. The
// service sends JSON with a "detail" field, but plain text happens too.
func extractDetail(raw []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "Server error"
	}
	return text
}

// normalize reduces the variant response shapes (plain text, JSON string,
// JSON object) to one canonical string before the reply leaves this package.
func normalize(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)

	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		return asString
	}

	var asObject map[string]any
	if err := json.Unmarshal(trimmed, &asObject); err == nil {
		if resp, ok := asObject["response"].(string); ok && resp != "" {
			return resp
		}
		if compact, err := json.Marshal(asObject); err == nil {
			return string(compact)
		}
	}

	return string(trimmed)
}
