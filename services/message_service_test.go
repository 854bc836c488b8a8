package services_test

import (
	"context"
	stderrors "errors"
	"pairchat/contract"
	"pairchat/domain"
	"pairchat/errors"
	"pairchat/mocks"
	"pairchat/services"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMessageService_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockIDocumentStore(ctrl)
	svc := services.NewMessageService(store)
	ctx := context.Background()

	t.Run("should write the message with server timestamps", func(t *testing.T) {
		req := require.New(t)
		store.EXPECT().
			Add(gomock.Any(), "messages", map[string]any{
				"conversationId": "u1_u2",
				"senderId":       "u1",
				"senderName":     "Alice",
				"text":           "hello",
				"timestamp":      contract.ServerTimestamp,
				"createdAt":      contract.ServerTimestamp,
			}).
			Return("m1", nil).
			Times(1)

		id, err := svc.Send(ctx, "u1_u2", "u1", "Alice", "hello")

		req.NoError(err)
		req.Equal("m1", id)
	})

	t.Run("should reject invalid messages without touching the store", func(t *testing.T) {
		req := require.New(t)
		store.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Send(ctx, "u1_u2", "u1", "Alice", "   ")
		req.ErrorIs(err, errors.ErrEmptyMessage)

		_, err = svc.Send(ctx, "u1_u2", "", "Alice", "hello")
		req.ErrorIs(err, errors.ErrMissingSender)

		_, err = svc.Send(ctx, "u1_u2", "u1", "Alice", strings.Repeat("é", domain.MaxTextLength+1))
		req.ErrorIs(err, errors.ErrMessageTooLong)
	})

	t.Run("should accept exactly the maximum length", func(t *testing.T) {
		req := require.New(t)
		store.EXPECT().Add(gomock.Any(), "messages", gomock.Any()).Return("m2", nil)

		_, err := svc.Send(ctx, "u1_u2", "u1", "Alice", strings.Repeat("é", domain.MaxTextLength))

		req.NoError(err)
	})

	t.Run("should wrap store failures", func(t *testing.T) {
		req := require.New(t)
		boom := stderrors.New("unavailable")
		store.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Return("", boom)

		_, err := svc.Send(ctx, "u1_u2", "u1", "Alice", "hello")

		req.ErrorIs(err, boom)
	})
}

func TestMessageService_Subscribe_Sorts_By_Timestamp(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockIDocumentStore(ctrl)
	svc := services.NewMessageService(store)
	sub := mocks.NewMockSubscription(ctrl)

	// Given the store delivers messages out of order
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	docs := []contract.Document{
		{ID: "m5", Data: map[string]any{"text": "five", "timestamp": float64(5), "createdAt": created}},
		{ID: "m1", Data: map[string]any{"text": "one", "timestamp": time.UnixMilli(1)}},
		{ID: "m3", Data: map[string]any{"text": "three", "timestamp": float64(3)}},
		{ID: "pending", Data: map[string]any{"text": "pending", "timestamp": contract.ServerTimestamp}},
	}
	store.EXPECT().
		Watch(gomock.Any(), contract.Where("messages", "conversationId", "u1_u2"), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ contract.Query, onSnapshot contract.SnapshotFunc, _ contract.ErrorFunc) (contract.Subscription, error) {
			onSnapshot(docs)
			return sub, nil
		})

	var got []domain.Message
	before := time.Now()
	s, err := svc.Subscribe(context.Background(), "u1_u2", func(messages []domain.Message) {
		got = messages
	}, nil)
	req.NoError(err)
	req.Equal(sub, s)

	// Then the unresolved one sorts as 0 and the others ascending
	req.Len(got, 4)
	req.Equal([]string{"pending", "m1", "m3", "m5"}, []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
	req.Equal([]int64{0, 1, 3, 5}, []int64{got[0].Timestamp, got[1].Timestamp, got[2].Timestamp, got[3].Timestamp})
	req.Equal(created, got[3].CreatedAt)
	// And a missing createdAt falls back to the local clock
	req.False(got[1].CreatedAt.Before(before))
}

func TestMessageService_Subscribe_Same_Millisecond(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockIDocumentStore(ctrl)
	svc := services.NewMessageService(store)

	// Given two messages stamped in the same millisecond, listed newest first
	first := time.Date(2026, 1, 2, 3, 4, 5, 100_000, time.UTC)
	second := first.Add(200 * time.Microsecond)
	docs := []contract.Document{
		{ID: "second", Data: map[string]any{"timestamp": second, "createdAt": second}},
		{ID: "first", Data: map[string]any{"timestamp": first, "createdAt": first}},
	}
	store.EXPECT().Watch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ contract.Query, onSnapshot contract.SnapshotFunc, _ contract.ErrorFunc) (contract.Subscription, error) {
			onSnapshot(docs)
			return contract.NewSubscription(func() {}), nil
		})

	var got []domain.Message
	_, err := svc.Subscribe(context.Background(), "u1_u2", func(messages []domain.Message) {
		got = messages
	}, nil)
	req.NoError(err)

	// Then createdAt decides
	req.Len(got, 2)
	req.Equal(got[0].Timestamp, got[1].Timestamp)
	req.Equal([]string{"first", "second"}, []string{got[0].ID, got[1].ID})
}

func TestMessageService_Subscribe_Forwards_Errors(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockIDocumentStore(ctrl)
	svc := services.NewMessageService(store)
	boom := stderrors.New("permission denied")

	store.EXPECT().Watch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ contract.Query, _ contract.SnapshotFunc, onError contract.ErrorFunc) (contract.Subscription, error) {
			onError(boom)
			return contract.NewSubscription(func() {}), nil
		})

	var reported error
	_, err := svc.Subscribe(context.Background(), "u1_u2", func([]domain.Message) {
		req.Fail("no messages expected")
	}, func(err error) { reported = err })

	req.NoError(err)
	req.ErrorIs(reported, boom)
}
