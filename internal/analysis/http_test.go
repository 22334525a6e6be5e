package analysis

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HEMANT2027/StreamSightAI/internal/config"
	"github.com/HEMANT2027/StreamSightAI/internal/domain"
	"github.com/HEMANT2027/StreamSightAI/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func newTestClient(baseURL string) *HTTPClient {
	return NewHTTPClient(config.AnalysisConfig{
		BaseURL:              baseURL,
		SubmitTimeoutSeconds: 5,
		HealthTimeoutSeconds: 1,
	}, silentLog())
}

func TestSubmitSendsMultipartFields(t *testing.T) {
	var gotPrompt, gotSession, gotFilename string
	var gotPayload []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotPrompt = r.FormValue("prompt")
		gotSession = r.FormValue("session_id")

		file, header, err := r.FormFile("video_file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotPayload, _ = io.ReadAll(file)

		io.WriteString(w, "The scene shows a busy street.")
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	reply, err := c.Submit(context.Background(), "Describe the scene", &domain.Attachment{
		Filename: "clip.mp4",
		MimeType: "video/mp4",
		Size:     4,
		Data:     []byte{1, 2, 3, 4},
	}, "session_123")

	require.NoError(t, err)
	assert.Equal(t, "The scene shows a busy street.", reply)
	assert.Equal(t, "Describe the scene", gotPrompt)
	assert.Equal(t, "session_123", gotSession)
	assert.Equal(t, "clip.mp4", gotFilename)
	assert.Equal(t, []byte{1, 2, 3, 4}, gotPayload)
}

func TestSubmitWithoutMediaOmitsFilePart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("video_file")
		assert.Error(t, err, "no file part expected")
		io.WriteString(w, "follow-up answer")
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	reply, err := c.Submit(context.Background(), "and then?", nil, "session_123")
	require.NoError(t, err)
	assert.Equal(t, "follow-up answer", reply)
}

func TestSubmitVideoFieldIsConfigurable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("video")
		assert.NoError(t, err, "expected payload under the configured field")
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := NewHTTPClient(config.AnalysisConfig{BaseURL: srv.URL, VideoField: "video"}, silentLog())
	_, err := c.Submit(context.Background(), "p", &domain.Attachment{
		Filename: "a.mp4", Data: []byte{1},
	}, "s")
	require.NoError(t, err)
}

func TestSubmitNormalizesJSONShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"plain text", "plain reply", "plain reply"},
		{"json string", `"quoted reply"`, "quoted reply"},
		{"json object with response", `{"response":"structured reply","session_id":"x"}`, "structured reply"},
		{"json object without response", `{"answer":42}`, `{"answer":42}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			reply, err := c.Submit(context.Background(), "p", nil, "s")
			require.NoError(t, err)
			assert.Equal(t, tc.want, reply)
		})
	}
}

func TestSubmitClassifiesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"detail":"Chat processing failed: boom"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Submit(context.Background(), "p", nil, "s")
	require.Error(t, err)

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusInternalServerError, srvErr.Status)
	assert.Equal(t, "Chat processing failed: boom", srvErr.Message)
	assert.Equal(t, "Request failed: Chat processing failed: boom", UserMessage(err))
}

func TestSubmitServerErrorPlainTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Submit(context.Background(), "p", nil, "s")

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, "bad gateway", srvErr.Message)
}

func TestSubmitClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.submitTimeout = 50 * time.Millisecond

	_, err := c.Submit(context.Background(), "p", nil, "s")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.Equal(t, "Request timeout. Please try again.", UserMessage(err))
}

func TestSubmitClassifiesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := newTestClient(srv.URL)
	_, err := c.Submit(context.Background(), "p", nil, "s")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork), "got %v", err)
	assert.Equal(t, "Network error. Please check your connection.", UserMessage(err))
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		healthy bool
	}{
		{"ok", http.StatusOK, `{"status":"ok","message":"Service is running"}`, true},
		{"degraded status field", http.StatusOK, `{"status":"degraded"}`, false},
		{"non-json body", http.StatusOK, "pong", false},
		{"server error", http.StatusInternalServerError, `{"status":"ok"}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/", r.URL.Path)
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			assert.Equal(t, tc.healthy, c.Health(context.Background()))
		})
	}
}

func TestHealthSwallowsConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(srv.URL)
	assert.False(t, c.Health(context.Background()))
}

func TestSubmitSendsAuthToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := NewHTTPClient(config.AnalysisConfig{BaseURL: srv.URL, AuthToken: "tok-1"}, silentLog())
	_, err := c.Submit(context.Background(), "p", nil, "s")
	require.NoError(t, err)
}

func TestName(t *testing.T) {
	c := newTestClient("https://streamsightai.onrender.com")
	assert.Equal(t, "streamsightai.onrender.com", c.Name())
}
