package conversation

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/HEMANT2027/StreamSightAI/internal/domain"
	"github.com/HEMANT2027/StreamSightAI/internal/logging"
)

// subscriberBufferSize is the channel buffer for each subscriber.
const subscriberBufferSize = 64

// EventType classifies broadcast events.
type EventType string

const (
	// EventMessage carries a newly appended conversation message.
	EventMessage EventType = "message"
	// EventReset signals the conversation was reset and carries the new
	// session token.
	EventReset EventType = "reset"
)

// Event is a conversation change pushed to subscribers.
type Event struct {
	Type      EventType       `json:"type"`
	Message   *domain.Message `json:"message,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

// Broadcaster fans conversation events out to subscribers (the WebSocket
// stream, a watching CLI). Publish is non-blocking: events are dropped for
// subscribers whose channels are full.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	closed      bool
	log         *logging.Logger
}

// NewBroadcaster creates a broadcaster.
func NewBroadcaster(log *logging.Logger) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan Event),
		log:         log.Sub("broadcast"),
	}
}

// Subscribe registers a subscriber and returns its event channel plus a
// subscription ID. The subscription is cleaned up when ctx is cancelled.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan Event, string) {
	subID := uuid.New().String()
	ch := make(chan Event, subscriberBufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, subID
	}
	b.subscribers[subID] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.Unsubscribe(subID)
	}()

	return ch, subID
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subscribers[subID]; ok {
		delete(b.subscribers, subID)
		close(ch)
	}
}

// Publish sends an event to all subscribers without blocking.
func (b *Broadcaster) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for subID, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			b.log.Warn().Str("subId", subID).Msg("subscriber buffer full, dropping event")
		}
	}
}

// Close shuts down all subscriptions.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for subID, ch := range b.subscribers {
		delete(b.subscribers, subID)
		close(ch)
	}
}
