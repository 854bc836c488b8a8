//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"cmp"
	"context"
	stderrors "errors"
	"fmt"
	"pairchat/codec"
	"pairchat/contract"
	"pairchat/domain"
	"pairchat/errors"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const (
	MessagesCollection = "messages"

	fieldConversationID = "conversationId"
	fieldSenderID       = "senderId"
	fieldSenderName     = "senderName"
	fieldText           = "text"
	fieldTimestamp      = "timestamp"
	fieldCreatedAt      = "createdAt"
)

var validate = validator.New()

// MessagesFunc receives the whole conversation, oldest first.
type MessagesFunc func(messages []domain.Message)

type IMessageService interface {
	Subscribe(ctx context.Context, conversationID string, onMessages MessagesFunc, onError contract.ErrorFunc) (contract.Subscription, error)
	Send(ctx context.Context, conversationID, senderID, senderName, text string) (string, error)
}

type outgoingMessage struct {
	SenderID string `validate:"required"`
	Text     string `validate:"max=500"`
}

type MessageService struct {
	store contract.IDocumentStore
	now   func() time.Time
}

func NewMessageService(store contract.IDocumentStore) *MessageService {
	return &MessageService{store: store, now: time.Now}
}

// Subscribe streams the messages of a conversation. Every delivery is the
// full list sorted by timestamp; messages still waiting for their server
// timestamp come first with a timestamp of 0.
func (s *MessageService) Subscribe(ctx context.Context, conversationID string,
	onMessages MessagesFunc, onError contract.ErrorFunc) (contract.Subscription, error) {
	q := contract.Where(MessagesCollection, fieldConversationID, conversationID)
	sub, err := s.store.Watch(ctx, q, func(docs []contract.Document) {
		onMessages(s.toMessages(docs))
	}, onError)
	if err != nil {
		return nil, fmt.Errorf("failed to watch conversation %s: %w", conversationID, err)
	}
	return sub, nil
}

// Send validates then writes a message. Nothing reaches the store when the
// message is rejected.
func (s *MessageService) Send(ctx context.Context, conversationID, senderID, senderName, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.ErrEmptyMessage
	}
	if err := validate.Struct(outgoingMessage{SenderID: senderID, Text: text}); err != nil {
		return "", toMessageError(err)
	}

	id, err := s.store.Add(ctx, MessagesCollection, map[string]any{
		fieldConversationID: conversationID,
		fieldSenderID:       senderID,
		fieldSenderName:     senderName,
		fieldText:           text,
		fieldTimestamp:      contract.ServerTimestamp,
		fieldCreatedAt:      contract.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return id, nil
}

func toMessageError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	switch fieldErrors[0].Field() {
	case "SenderID":
		return errors.ErrMissingSender
	default:
		return fmt.Errorf("%w: %d characters max", errors.ErrMessageTooLong, domain.MaxTextLength)
	}
}

func (s *MessageService) toMessages(docs []contract.Document) []domain.Message {
	messages := lo.Map(docs, func(doc contract.Document, _ int) domain.Message {
		return s.toMessage(doc)
	})
	// Timestamps are milliseconds, createdAt orders writes of the same one
	slices.SortStableFunc(messages, func(a, b domain.Message) int {
		return cmp.Or(cmp.Compare(a.Timestamp, b.Timestamp), a.CreatedAt.Compare(b.CreatedAt))
	})
	return messages
}

func (s *MessageService) toMessage(doc contract.Document) domain.Message {
	createdAt, ok := codec.AsTime(doc.Data, fieldCreatedAt)
	if !ok {
		createdAt = s.now()
	}
	return domain.Message{
		ID:             doc.ID,
		ConversationID: codec.AsString(doc.Data, fieldConversationID),
		SenderID:       codec.AsString(doc.Data, fieldSenderID),
		SenderName:     codec.AsString(doc.Data, fieldSenderName),
		Text:           codec.AsString(doc.Data, fieldText),
		Timestamp:      codec.AsMillis(doc.Data, fieldTimestamp),
		CreatedAt:      createdAt,
	}
}
