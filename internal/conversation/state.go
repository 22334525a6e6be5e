package conversation

import "github.com/HEMANT2027/StreamSightAI/internal/domain"

// Snapshot is the read-only view of conversation state exposed to the
// presentation layer. The five controller operations are the only mutation
// entry points; nothing outside the controller writes this state.
type Snapshot struct {
	SessionID  string                 `json:"sessionId"`
	Messages   []domain.Message       `json:"messages"`
	MediaBound bool                   `json:"mediaBound"`
	Awaiting   bool                   `json:"awaiting"`
	Online     bool                   `json:"online"`
	Attachment *domain.AttachmentMeta `json:"attachment,omitempty"`
}
