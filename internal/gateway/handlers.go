package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/HEMANT2027/StreamSightAI/internal/conversation"
	"github.com/HEMANT2027/StreamSightAI/internal/domain"
)

// uploadSlack is added on top of the media policy ceiling so that oversized
// uploads reach the validator and get a proper FileTooLarge message instead
// of a blunt 413.
const uploadSlack = 10 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+uploadSlack)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	prompt := r.FormValue("prompt")

	var attachment *domain.Attachment
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read upload"})
			return
		}
		attachment = &domain.Attachment{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Data:     data,
		}
	}

	if err := s.controller.SubmitMedia(r.Context(), attachment, prompt); err != nil {
		if errors.Is(err, conversation.ErrRequestInFlight) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a request is already in flight"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.controller.State())
}

type messageParams struct {
	Text string `json:"text"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var p messageParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := s.controller.SendFollowUp(r.Context(), p.Text); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset()
	writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export := s.controller.ExportHistory()

	if r.URL.Query().Get("save") == "1" {
		if s.archive == nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "archiving is disabled"})
			return
		}
		if err := s.archive.Save(export); err != nil {
			s.log.Error().Err(err).Msg("failed to archive transcript")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to archive transcript"})
			return
		}
	}

	writeJSON(w, http.StatusOK, export)
}

func (s *Server) handleServiceHealth(w http.ResponseWriter, r *http.Request) {
	online := s.controller.ProbeConnectivity(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"online": online})
}

// handleWebSocket streams conversation events to a client. The first frame
// is always a full state snapshot; message and reset events follow as they
// happen.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("new websocket connection")

	if err := conn.WriteJSON(streamFrame{Type: "state", State: ptr(s.controller.State())}); err != nil {
		return
	}

	events, _ := s.controller.Subscribe(r.Context())

	// Drain reads so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for evt := range events {
		frame := streamFrame{Type: string(evt.Type), Message: evt.Message, SessionID: evt.SessionID}
		if err := conn.WriteJSON(frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Msg("websocket write failed")
			}
			return
		}
	}
}

// streamFrame is the wire shape of WebSocket pushes.
type streamFrame struct {
	Type      string                 `json:"type"`
	State     *conversation.Snapshot `json:"state,omitempty"`
	Message   *domain.Message        `json:"message,omitempty"`
	SessionID string                 `json:"sessionId,omitempty"`
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func ptr[T any](v T) *T { return &v }
