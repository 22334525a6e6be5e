package domain

import "time"

// Export is a serializable snapshot of a conversation: the session token,
// the full ordered message log, and the held attachment's metadata. It never
// carries binary payloads.
type Export struct {
	SessionID  string            `json:"sessionId"`
	ExportedAt time.Time         `json:"exportedAt"`
	Messages   []ExportedMessage `json:"messages"`
	Attachment *AttachmentMeta   `json:"videoFile,omitempty"`
}

// ExportedMessage mirrors Message with explicit JSON field names matching
// the exported document format. Timestamps serialize as RFC 3339.
type ExportedMessage struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	IsError   bool      `json:"isError,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportMessages converts a message log into its exported form.
func ExportMessages(msgs []Message) []ExportedMessage {
	out := make([]ExportedMessage, len(msgs))
	for i, m := range msgs {
		out[i] = ExportedMessage{
			Text:      m.Text,
			IsUser:    m.Origin == OriginUser,
			IsError:   m.IsError,
			Timestamp: m.CreatedAt,
		}
	}
	return out
}

// Rehydrate converts exported messages back into log messages. Together with
// ExportMessages it round-trips text, origin, error flag and timestamp.
func Rehydrate(msgs []ExportedMessage) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		origin := OriginBot
		if m.IsUser {
			origin = OriginUser
		}
		out[i] = Message{
			Text:      m.Text,
			Origin:    origin,
			IsError:   m.IsError,
			CreatedAt: m.Timestamp,
		}
	}
	return out
}
