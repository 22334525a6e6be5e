// Package conversation owns the conversation state machine: the session
// identity, the append-only message log, and the upload/validate/dispatch
// workflow against the analysis service.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/HEMANT2027/StreamSightAI/internal/analysis"
	"github.com/HEMANT2027/StreamSightAI/internal/domain"
	"github.com/HEMANT2027/StreamSightAI/internal/logging"
	"github.com/HEMANT2027/StreamSightAI/internal/media"
	"github.com/HEMANT2027/StreamSightAI/internal/session"
)

// ErrRequestInFlight is returned by SubmitMedia when a request is already
// outstanding. Follow-ups in the same situation are dropped silently: the
// input surface is expected to prevent them.
var ErrRequestInFlight = errors.New("a request is already in flight")

const (
	welcomeText    = "Welcome! Please upload a video to begin the analysis."
	defaultPrompt  = "Analyze this video"
	offlineWarning = "Warning: cannot connect to the analysis service. Please check if the backend is running."
)

// Controller is the single writer for all conversation state. Callers invoke
// operations sequentially; the internal mutex guards discrete mutations only
// and is never held across a network call.
type Controller struct {
	identity  *session.Identity
	client    analysis.Client
	validator *media.Validator
	events    *Broadcaster
	log       *logging.Logger

	mu            sync.Mutex
	messages      []domain.Message
	mediaBound    bool
	awaiting      bool
	online        bool
	warnedOffline bool
	attachment    *domain.AttachmentMeta
}

// NewController creates a controller seeded with the welcome message and a
// fresh session token.
func NewController(client analysis.Client, validator *media.Validator, log *logging.Logger) *Controller {
	return &Controller{
		identity:  session.New(),
		client:    client,
		validator: validator,
		events:    NewBroadcaster(log),
		log:       log.Sub("conversation"),
		messages:  []domain.Message{domain.BotMessage(welcomeText)},
		online:    true,
	}
}

// SessionID returns the current session token.
func (c *Controller) SessionID() string {
	return c.identity.Current()
}

// Subscribe registers for conversation events. See Broadcaster.
func (c *Controller) Subscribe(ctx context.Context) (<-chan Event, string) {
	return c.events.Subscribe(ctx)
}

// Close releases the event stream.
func (c *Controller) Close() {
	c.events.Close()
}

// SubmitMedia validates the file, then dispatches prompt and payload to the
// analysis service. Validation failures surface as an error message and
// never reach the network. A successful reply binds the media to the
// conversation so follow-ups no longer need an attachment.
func (c *Controller) SubmitMedia(ctx context.Context, file *domain.Attachment, prompt string) error {
	if res := c.validator.Validate(file); !res.OK {
		c.log.Info().Str("reason", string(res.Reason)).Msg("upload rejected by validation")
		c.append(domain.ErrorMessage(fmt.Sprintf("File validation failed (%s): %s", res.Reason, res.Detail)))
		return nil
	}

	if err := c.beginRequest(); err != nil {
		return err
	}
	defer c.endRequest()

	text := strings.TrimSpace(prompt)
	if text == "" {
		text = defaultPrompt
	}

	meta := file.Meta()
	c.mu.Lock()
	c.attachment = &meta
	c.mu.Unlock()

	c.append(domain.UserMessage(text))

	start := time.Now()
	c.log.Info().
		Str("session", c.identity.Current()).
		Str("file", file.Filename).
		Int64("size", file.Size).
		Msg("submitting media")

	reply, err := c.client.Submit(ctx, text, file, c.identity.Current())
	if err != nil {
		c.log.Warn().Err(err).Msg("media submission failed")
		c.append(domain.ErrorMessage("Upload failed: " + analysis.UserMessage(err)))
		return nil
	}

	c.mu.Lock()
	c.mediaBound = true
	c.mu.Unlock()
	c.append(domain.BotMessage(reply))

	c.log.Info().Dur("duration", time.Since(start)).Msg("media analysis complete")
	return nil
}

// SendFollowUp sends a text-only turn under the current session. Blank text
// is a no-op. If a request is already in flight the call is dropped silently
// rather than surfaced as an error.
func (c *Controller) SendFollowUp(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if err := c.beginRequest(); err != nil {
		c.log.Debug().Msg("follow-up dropped, request in flight")
		return nil
	}
	defer c.endRequest()

	c.append(domain.UserMessage(text))

	reply, err := c.client.Submit(ctx, text, nil, c.identity.Current())
	if err != nil {
		c.log.Warn().Err(err).Msg("follow-up failed")
		c.append(domain.ErrorMessage("Message failed: " + analysis.UserMessage(err)))
		return nil
	}

	c.append(domain.BotMessage(reply))
	return nil
}

// Reset discards all conversation state: it regenerates the session token,
// re-seeds the log with the welcome message, and drops the held attachment.
func (c *Controller) Reset() {
	token := c.identity.Reset()

	c.mu.Lock()
	c.messages = []domain.Message{domain.BotMessage(welcomeText)}
	c.mediaBound = false
	c.attachment = nil
	c.warnedOffline = false
	c.mu.Unlock()

	c.log.Info().Str("session", token).Msg("conversation reset")
	c.events.Publish(Event{Type: EventReset, SessionID: token})
}

// ExportHistory produces a serializable snapshot of the conversation. It is
// a pure read: no state changes.
func (c *Controller) ExportHistory() domain.Export {
	c.mu.Lock()
	defer c.mu.Unlock()

	return domain.Export{
		SessionID:  c.identity.Current(),
		ExportedAt: time.Now(),
		Messages:   domain.ExportMessages(c.messages),
		Attachment: c.attachment,
	}
}

// ProbeConnectivity checks service health and records the result. The first
// failed probe also surfaces a warning message in the conversation; health
// failures never block submission.
func (c *Controller) ProbeConnectivity(ctx context.Context) bool {
	healthy := c.client.Health(ctx)

	c.mu.Lock()
	c.online = healthy
	warn := !healthy && !c.warnedOffline
	if warn {
		c.warnedOffline = true
	}
	c.mu.Unlock()

	if warn {
		c.append(domain.ErrorMessage(offlineWarning))
	}
	return healthy
}

// State returns a read-only snapshot for the presentation layer.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := make([]domain.Message, len(c.messages))
	copy(msgs, c.messages)

	return Snapshot{
		SessionID:  c.identity.Current(),
		Messages:   msgs,
		MediaBound: c.mediaBound,
		Awaiting:   c.awaiting,
		Online:     c.online,
		Attachment: c.attachment,
	}
}

// beginRequest claims the single-outstanding-request slot.
func (c *Controller) beginRequest() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.awaiting {
		return ErrRequestInFlight
	}
	c.awaiting = true
	return nil
}

// endRequest releases the slot. Runs on every exit path of an operation.
func (c *Controller) endRequest() {
	c.mu.Lock()
	c.awaiting = false
	c.mu.Unlock()
}

// append adds a message at the tail of the log and notifies subscribers.
func (c *Controller) append(msg domain.Message) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	c.events.Publish(Event{Type: EventMessage, Message: &msg})
}
