// Package domain holds the pure conversation types shared across the module.
package domain

import "time"

// Origin identifies who produced a message.
type Origin string

const (
	OriginUser Origin = "user"
	OriginBot  Origin = "bot"
)

// Message is a single entry in the conversation log. Messages are value
// types: once appended to a conversation they are never mutated.
type Message struct {
	Text      string    `json:"text"`
	Origin    Origin    `json:"origin"`
	IsError   bool      `json:"isError,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserMessage builds a normal message from the user.
func UserMessage(text string) Message {
	return Message{Text: text, Origin: OriginUser, CreatedAt: time.Now()}
}

// BotMessage builds a normal message from the analysis service.
func BotMessage(text string) Message {
	return Message{Text: text, Origin: OriginBot, CreatedAt: time.Now()}
}

// ErrorMessage builds a bot-originated message flagged as an error. The
// presentation layer renders these visually distinct from normal replies.
func ErrorMessage(text string) Message {
	return Message{Text: text, Origin: OriginBot, IsError: true, CreatedAt: time.Now()}
}
