package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HEMANT2027/StreamSightAI/internal/analysis"
	"github.com/HEMANT2027/StreamSightAI/internal/config"
	"github.com/HEMANT2027/StreamSightAI/internal/conversation"
	"github.com/HEMANT2027/StreamSightAI/internal/domain"
	"github.com/HEMANT2027/StreamSightAI/internal/logging"
	"github.com/HEMANT2027/StreamSightAI/internal/media"
	"github.com/HEMANT2027/StreamSightAI/internal/store"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func testController(client analysis.Client) *conversation.Controller {
	return conversation.NewController(client, media.NewValidator(config.Defaults().Media), silentLog())
}

func testServer(t *testing.T, cfg config.GatewayConfig, client analysis.Client, archive *store.TranscriptStore) (*httptest.Server, *conversation.Controller) {
	t.Helper()
	controller := testController(client)
	s := New(cfg, config.Defaults().Media, controller, archive, silentLog())
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	t.Cleanup(controller.Close)
	return srv, controller
}

func getJSON(t *testing.T, url string, target any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
	return resp
}

func multipartSubmit(t *testing.T, url, prompt, filename string, payload []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("prompt", prompt))
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	resp, err := http.Post(url+"/api/submit", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestHealthEndpointIsPublic(t *testing.T) {
	srv, _ := testServer(t, config.GatewayConfig{Token: "secret"}, &analysis.MockClient{}, nil)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthGuardsAPIRoutes(t *testing.T) {
	srv, _ := testServer(t, config.GatewayConfig{Token: "secret"}, &analysis.MockClient{}, nil)

	resp, err := http.Get(srv.URL + "/api/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/state", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStateSnapshot(t *testing.T) {
	srv, controller := testServer(t, config.GatewayConfig{}, &analysis.MockClient{}, nil)

	var snap conversation.Snapshot
	resp := getJSON(t, srv.URL+"/api/state", &snap)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, controller.SessionID(), snap.SessionID)
	require.Len(t, snap.Messages, 1)
	assert.False(t, snap.MediaBound)
}

func TestSubmitFlow(t *testing.T) {
	mock := &analysis.MockClient{
		SubmitFunc: func(ctx context.Context, prompt string, m *domain.Attachment, sessionID string) (string, error) {
			assert.Equal(t, "clip.mp4", m.Filename)
			return "looks like a street", nil
		},
	}
	srv, _ := testServer(t, config.GatewayConfig{}, mock, nil)

	resp := multipartSubmit(t, srv.URL, "Describe", "clip.mp4", []byte("data"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap conversation.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.True(t, snap.MediaBound)
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, "looks like a street", snap.Messages[2].Text)
}

func TestSubmitValidationFailureSurfacesInState(t *testing.T) {
	srv, _ := testServer(t, config.GatewayConfig{}, &analysis.MockClient{}, nil)

	resp := multipartSubmit(t, srv.URL, "Describe", "notes.txt", []byte("not a video"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap conversation.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.False(t, snap.MediaBound)
	last := snap.Messages[len(snap.Messages)-1]
	assert.True(t, last.IsError)
	assert.Contains(t, last.Text, "UnsupportedType")
}

func TestSubmitWhileBusyConflicts(t *testing.T) {
	release := make(chan struct{})
	mock := &analysis.MockClient{
		SubmitFunc: func(ctx context.Context, prompt string, m *domain.Attachment, sessionID string) (string, error) {
			<-release
			return "done", nil
		},
	}
	srv, controller := testServer(t, config.GatewayConfig{}, mock, nil)

	go controller.SubmitMedia(context.Background(), &domain.Attachment{
		Filename: "a.mp4", MimeType: "video/mp4", Size: 1, Data: []byte{1},
	}, "first")
	require.Eventually(t, func() bool { return controller.State().Awaiting }, time.Second, time.Millisecond)

	resp := multipartSubmit(t, srv.URL, "second", "b.mp4", []byte{2})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	close(release)
}

func TestMessageEndpoint(t *testing.T) {
	mock := &analysis.MockClient{
		SubmitFunc: func(ctx context.Context, prompt string, m *domain.Attachment, sessionID string) (string, error) {
			assert.Nil(t, m)
			return "a reply", nil
		},
	}
	srv, _ := testServer(t, config.GatewayConfig{}, mock, nil)

	resp, err := http.Post(srv.URL+"/api/message", "application/json",
		strings.NewReader(`{"text":"what happens next?"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap conversation.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, "a reply", snap.Messages[2].Text)
}

func TestResetEndpoint(t *testing.T) {
	srv, controller := testServer(t, config.GatewayConfig{}, &analysis.MockClient{}, nil)
	before := controller.SessionID()

	resp, err := http.Post(srv.URL+"/api/reset", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap conversation.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.NotEqual(t, before, snap.SessionID)
	assert.Len(t, snap.Messages, 1)
}

func TestExportEndpointWithArchive(t *testing.T) {
	db, err := store.Open(":memory:", silentLog())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	archive := store.NewTranscriptStore(db)

	srv, controller := testServer(t, config.GatewayConfig{}, &analysis.MockClient{}, archive)
	require.NoError(t, controller.SendFollowUp(context.Background(), "hi"))

	var export domain.Export
	resp := getJSON(t, srv.URL+"/api/export?save=1", &export)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, controller.SessionID(), export.SessionID)

	saved, err := archive.Get(controller.SessionID())
	require.NoError(t, err)
	assert.Len(t, saved.Messages, 3)
}

func TestExportSaveWithoutArchive(t *testing.T) {
	srv, _ := testServer(t, config.GatewayConfig{}, &analysis.MockClient{}, nil)
	resp, err := http.Get(srv.URL + "/api/export?save=1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServiceHealthEndpoint(t *testing.T) {
	mock := &analysis.MockClient{HealthFunc: func(ctx context.Context) bool { return false }}
	srv, _ := testServer(t, config.GatewayConfig{}, mock, nil)

	var body map[string]bool
	getJSON(t, srv.URL+"/api/service-health", &body)
	assert.False(t, body["online"])
}

func TestWebSocketStream(t *testing.T) {
	srv, controller := testServer(t, config.GatewayConfig{}, &analysis.MockClient{
		SubmitFunc: func(ctx context.Context, prompt string, m *domain.Attachment, sessionID string) (string, error) {
			return "streamed reply", nil
		},
	}, nil)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	var first streamFrame
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "state", first.Type)
	require.NotNil(t, first.State)
	assert.Equal(t, controller.SessionID(), first.State.SessionID)

	require.NoError(t, controller.SendFollowUp(context.Background(), "hello"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var userFrame, botFrame streamFrame
	require.NoError(t, conn.ReadJSON(&userFrame))
	require.NoError(t, conn.ReadJSON(&botFrame))
	assert.Equal(t, "message", userFrame.Type)
	assert.Equal(t, "hello", userFrame.Message.Text)
	assert.Equal(t, "streamed reply", botFrame.Message.Text)
}

func TestSubmitCapTracksMediaPolicy(t *testing.T) {
	mediaCfg := config.MediaConfig{MaxUploadBytes: 1 << 20}
	controller := conversation.NewController(&analysis.MockClient{}, media.NewValidator(mediaCfg), silentLog())
	t.Cleanup(controller.Close)

	s := New(config.GatewayConfig{}, mediaCfg, controller, nil, silentLog())
	assert.Equal(t, int64(1<<20), s.maxUpload)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	// Over the policy ceiling but under the request cap: the validator
	// answers, not MaxBytesReader.
	resp := multipartSubmit(t, srv.URL, "Describe", "big.mp4", bytes.Repeat([]byte{1}, 2<<20))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap conversation.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	last := snap.Messages[len(snap.Messages)-1]
	assert.True(t, last.IsError)
	assert.Contains(t, last.Text, "FileTooLarge")
}

func TestUploadCapDefaultsWhenUnset(t *testing.T) {
	controller := testController(&analysis.MockClient{})
	t.Cleanup(controller.Close)

	s := New(config.GatewayConfig{}, config.MediaConfig{}, controller, nil, silentLog())
	assert.Equal(t, int64(config.DefaultMaxUploadBytes), s.maxUpload)
}

func TestUnknownRoute404(t *testing.T) {
	srv, _ := testServer(t, config.GatewayConfig{}, &analysis.MockClient{}, nil)
	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "/nope")
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := testServer(t, config.GatewayConfig{}, &analysis.MockClient{}, nil)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
