package services

import (
	"context"
	"fmt"
	"pairchat/codec"
	"pairchat/contract"
	"pairchat/domain"
)

const ConversationsCollection = "conversations"

// ConversationFunc receives the conversation projection, nil while it does not exist.
type ConversationFunc func(conversation *domain.Conversation)

// ConversationService reads the conversation projection maintained by the backend.
// The client never writes it.
type ConversationService struct {
	store contract.IDocumentStore
}

func NewConversationService(store contract.IDocumentStore) *ConversationService {
	return &ConversationService{store: store}
}

func (s *ConversationService) Subscribe(ctx context.Context, conversationID string,
	onConversation ConversationFunc, onError contract.ErrorFunc) (contract.Subscription, error) {
	q := contract.Where(ConversationsCollection, "id", conversationID)
	sub, err := s.store.Watch(ctx, q, func(docs []contract.Document) {
		if len(docs) == 0 {
			onConversation(nil)
			return
		}
		conversation := toConversation(docs[0])
		onConversation(&conversation)
	}, onError)
	if err != nil {
		return nil, fmt.Errorf("failed to watch conversation %s: %w", conversationID, err)
	}
	return sub, nil
}

func toConversation(doc contract.Document) domain.Conversation {
	id := codec.AsString(doc.Data, "id")
	if id == "" {
		id = doc.ID
	}
	return domain.Conversation{
		ID:                   id,
		Participants:         codec.AsStrings(doc.Data, "participants"),
		ParticipantNames:     codec.AsStringMap(doc.Data, "participantNames"),
		LastMessage:          codec.AsString(doc.Data, "lastMessage"),
		LastMessageTimestamp: codec.AsMillis(doc.Data, "lastMessageTimestamp"),
		CreatedAt:            codec.AsMillis(doc.Data, "createdAt"),
		UpdatedAt:            codec.AsMillis(doc.Data, "updatedAt"),
	}
}
