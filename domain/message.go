package domain

import (
	"time"
)

// MaxTextLength bounds the text body of a message, in characters.
const MaxTextLength = 500

// Message represents an immutable chat message.
// Timestamp is assigned by the backend; it stays 0 until the backend has resolved it.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	SenderName     string
	Text           string
	Timestamp      int64 // milliseconds since epoch
	CreatedAt      time.Time
}

// IsFrom reports whether the message was sent by the given user.
func (m Message) IsFrom(uid string) bool {
	return m.SenderID == uid
}
