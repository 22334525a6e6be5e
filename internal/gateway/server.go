// Package gateway serves the conversation state and operations to local
// presentation clients over HTTP and WebSocket. It is a thin adapter: all
// state lives in the conversation controller.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/HEMANT2027/StreamSightAI/internal/config"
	"github.com/HEMANT2027/StreamSightAI/internal/conversation"
	"github.com/HEMANT2027/StreamSightAI/internal/logging"
	"github.com/HEMANT2027/StreamSightAI/internal/store"
)

// Server is the local HTTP + WebSocket surface for one conversation.
type Server struct {
	cfg        config.GatewayConfig
	controller *conversation.Controller
	archive    *store.TranscriptStore // nil disables archiving
	log        *logging.Logger
	maxUpload  int64 // media policy ceiling, bounds the request body

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New creates a gateway server around a controller. archive may be nil.
func New(cfg config.GatewayConfig, mediaCfg config.MediaConfig, controller *conversation.Controller, archive *store.TranscriptStore, log *logging.Logger) *Server {
	maxUpload := mediaCfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = config.DefaultMaxUploadBytes
	}
	s := &Server{
		cfg:        cfg,
		controller: controller,
		archive:    archive,
		log:        log.Sub("gateway"),
		maxUpload:  maxUpload,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || isOriginAllowed(origin, cfg.AllowedOrigins)
		},
	}
	return s
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.auth(s.handleState))
	mux.HandleFunc("POST /api/submit", s.auth(s.handleSubmit))
	mux.HandleFunc("POST /api/message", s.auth(s.handleMessage))
	mux.HandleFunc("POST /api/reset", s.auth(s.handleReset))
	mux.HandleFunc("GET /api/export", s.auth(s.handleExport))
	mux.HandleFunc("GET /api/service-health", s.auth(s.handleServiceHealth))
	mux.HandleFunc("GET /ws", s.auth(s.handleWebSocket))
	mux.HandleFunc("/", handleNotFound)

	return withMiddleware(mux, s.log, s.cfg.AllowedOrigins)
}

// Start begins serving and blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	host := "127.0.0.1"
	if s.cfg.Bind == "lan" {
		host = "0.0.0.0"
	}
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", s.cfg.Port))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("gateway listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info().Msg("gateway shutting down")
	return s.httpServer.Shutdown(ctx)
}

// auth wraps a handler with bearer-token authentication when a token is
// configured. WebSocket clients may pass the token as a query parameter
// since browsers cannot set headers on upgrade requests.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	if s.cfg.Token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.cfg.Token {
			s.log.Warn().Str("remote", r.RemoteAddr).Str("path", r.URL.Path).Msg("rejected unauthorized request")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
