// Package domain contains core concepts of the chat client.
// Types here are plain values; no backend, network or UI logic belongs here.
package domain

import (
	"slices"
	"strings"
)

// ConversationSeparator joins the two participant ids of a direct conversation.
const ConversationSeparator = "_"

// ConversationID derives the identifier shared by both participants of a direct conversation.
// The ids are sorted before being joined, so ConversationID(a, b) == ConversationID(b, a).
func ConversationID(a, b string) string {
	ids := []string{a, b}
	slices.Sort(ids)
	return strings.Join(ids, ConversationSeparator)
}

// Conversation is a read-only projection of a conversation document.
type Conversation struct {
	ID                   string
	Participants         []string
	ParticipantNames     map[string]string
	LastMessage          string
	LastMessageTimestamp int64
	CreatedAt            int64
	UpdatedAt            int64
}
