package workers

import (
	"context"
	"log/slog"
	"pairchat/contract"
	"pairchat/domain/event"
	"pairchat/mocks"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventFanout_Fanout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockSink := mocks.NewMockEventSink(ctrl)

	fanoutWorker := NewEventFanout(log, mockRegistry, nil, 10*time.Second)
	evt := event.DocumentChanged{Collection: "messages", ID: "m1"}

	done := make(chan struct{})
	var count atomic.Int32
	// Given two live queries listen to the collection
	mockRegistry.EXPECT().GetSinksForCollection("messages").
		Return([]contract.EventSink{mockSink, mockSink}).Times(1)
	mockSink.EXPECT().Consume(gomock.Any(), evt).Do(
		func(ctx context.Context, e event.DocumentChanged) {
			if count.Add(1) == 2 {
				close(done)
			}
		}).Return(nil).
		Times(2)

	// When a change is handled by the worker
	fanoutWorker.Fanout(context.Background(), evt)

	// Then both sinks consumed it
	select {
	case <-done:
	case <-time.After(1 * time.Second):
		req.Fail("Sinks were not consumed in time")
	}
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockSink := mocks.NewMockEventSink(ctrl)
	sinkTimeout := 20 * time.Millisecond
	fanoutWorker := NewEventFanout(log, mockRegistry, nil, sinkTimeout)

	mockRegistry.EXPECT().GetSinksForCollection(gomock.Any()).
		Return([]contract.EventSink{mockSink}).Times(1)

	errs := make(chan error, 1)
	mockSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e event.DocumentChanged) error {
			<-ctx.Done() // Waiting for the deadline
			errs <- ctx.Err()
			return ctx.Err()
		}).
		Times(1)

	fanoutWorker.Fanout(context.Background(), event.DocumentChanged{Collection: "users"})

	select {
	case err := <-errs:
		req.ErrorIs(err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		req.Fail("Sink deadline was never reached")
	}
}

func TestEventFanout_No_Watcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	changes := make(chan event.DocumentChanged, 1)
	fanoutWorker := NewEventFanout(slog.Default(), mockRegistry, changes, time.Second)

	// Given nobody listens to the collection
	handled := make(chan struct{})
	mockRegistry.EXPECT().GetSinksForCollection("conversations").
		DoAndReturn(func(string) []contract.EventSink {
			close(handled)
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error)
	go func() { stopped <- fanoutWorker.Run(ctx) }()

	// When a change is published
	changes <- event.DocumentChanged{Collection: "conversations", ID: "c1"}
	<-handled

	// Then the worker stops cleanly on cancel
	cancel()
	require.NoError(t, <-stopped)
}
