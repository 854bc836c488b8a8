package services_test

import (
	"context"
	"pairchat/contract"
	"pairchat/domain"
	"pairchat/mocks"
	"pairchat/services"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestConversationService_Subscribe(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockIDocumentStore(ctrl)
	svc := services.NewConversationService(store)

	var deliver contract.SnapshotFunc
	store.EXPECT().
		Watch(gomock.Any(), contract.Where("conversations", "id", "u1_u2"), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ contract.Query, onSnapshot contract.SnapshotFunc, _ contract.ErrorFunc) (contract.Subscription, error) {
			deliver = onSnapshot
			return contract.NewSubscription(func() {}), nil
		})

	var got []*domain.Conversation
	_, err := svc.Subscribe(context.Background(), "u1_u2", func(c *domain.Conversation) {
		got = append(got, c)
	}, nil)
	req.NoError(err)

	// Given the projection does not exist yet
	deliver(nil)
	// When the backend creates it
	deliver([]contract.Document{{ID: "u1_u2", Data: map[string]any{
		"id":                   "u1_u2",
		"participants":         []any{"u1", "u2"},
		"participantNames":     map[string]any{"u1": "Alice", "u2": "Bob"},
		"lastMessage":          "hi",
		"lastMessageTimestamp": float64(42),
	}}})

	// Then
	req.Len(got, 2)
	req.Nil(got[0])
	req.Equal([]string{"u1", "u2"}, got[1].Participants)
	req.Equal("Bob", got[1].ParticipantNames["u2"])
	req.Equal(int64(42), got[1].LastMessageTimestamp)
}
