package runtime_test

import (
	"context"
	"log/slog"
	"pairchat/contract"
	"pairchat/runtime"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func startOrchestrator(t *testing.T) *runtime.Orchestrator {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)

	orchestrator := runtime.NewOrchestrator(slog.Default(), db, runtime.Config{
		BufferSize:     16,
		SinkTimeout:    time.Second,
		RestartDelay:   10 * time.Millisecond,
		MetricInterval: 50 * time.Millisecond,
	})
	done := make(chan struct{})
	go func() {
		orchestrator.Start(context.Background())
		close(done)
	}()
	t.Cleanup(func() {
		orchestrator.Stop()
		<-done
		_ = db.Close()
	})
	return orchestrator
}

// waitForSnapshot returns the next delivery, failing after a second.
func waitForSnapshot(t *testing.T, snapshots <-chan []contract.Document) []contract.Document {
	select {
	case docs := <-snapshots:
		return docs
	case <-time.After(time.Second):
		require.Fail(t, "no snapshot delivered")
		return nil
	}
}

func Test_Orchestrator_Live_Query_Follows_Writes(t *testing.T) {
	req := require.New(t)
	store := startOrchestrator(t).Store()
	ctx := context.Background()

	snapshots := make(chan []contract.Document, 64)
	sub, err := store.Watch(ctx, contract.Where("messages", "conversationId", "a_b"),
		func(docs []contract.Document) { snapshots <- docs }, nil)
	req.NoError(err)
	defer sub.Unsubscribe()

	// Given the empty conversation was delivered
	req.Empty(waitForSnapshot(t, snapshots))

	// When messages are written, the change feed may still be starting,
	// so keep writing until one is seen
	req.Eventually(func() bool {
		_, err := store.Add(ctx, "messages", map[string]any{
			"conversationId": "a_b",
			"text":           "hi",
			"timestamp":      contract.ServerTimestamp,
		})
		req.NoError(err)
		select {
		case docs := <-snapshots:
			return len(docs) > 0
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	// Then writes on another conversation are not part of the result set
	_, err = store.Add(ctx, "messages", map[string]any{"conversationId": "a_c", "text": "yo"})
	req.NoError(err)
	for _, doc := range waitForSnapshot(t, snapshots) {
		req.Equal("a_b", doc.Data["conversationId"])
	}
}

func Test_Orchestrator_No_Delivery_After_Unsubscribe(t *testing.T) {
	req := require.New(t)
	store := startOrchestrator(t).Store()
	ctx := context.Background()

	snapshots := make(chan []contract.Document, 64)
	sub, err := store.Watch(ctx, contract.Query{Collection: "users"},
		func(docs []contract.Document) { snapshots <- docs }, nil)
	req.NoError(err)
	waitForSnapshot(t, snapshots)

	// Given the feed is running
	req.Eventually(func() bool {
		req.NoError(store.Set(ctx, "users", "probe", map[string]any{"at": time.Now()}))
		select {
		case <-snapshots:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	// When the subscription is disposed
	sub.Unsubscribe()
	for len(snapshots) > 0 {
		<-snapshots
	}
	req.NoError(store.Set(ctx, "users", "u1", map[string]any{"email": "a@example.com"}))

	// Then nothing more is delivered
	select {
	case <-snapshots:
		req.Fail("snapshot delivered after unsubscribe")
	case <-time.After(200 * time.Millisecond):
	}
}

func Test_Orchestrator_Watch_Ends_With_Context(t *testing.T) {
	req := require.New(t)
	store := startOrchestrator(t).Store()

	ctx, cancel := context.WithCancel(context.Background())
	snapshots := make(chan []contract.Document, 64)
	_, err := store.Watch(ctx, contract.Query{Collection: "conversations"},
		func(docs []contract.Document) { snapshots <- docs }, nil)
	req.NoError(err)
	waitForSnapshot(t, snapshots)

	// When the caller context is cancelled
	cancel()
	time.Sleep(20 * time.Millisecond)
	for len(snapshots) > 0 {
		<-snapshots
	}
	req.NoError(store.Set(context.Background(), "conversations", "a_b", map[string]any{"id": "a_b"}))

	// Then the query is gone
	select {
	case <-snapshots:
		req.Fail("snapshot delivered after cancel")
	case <-time.After(200 * time.Millisecond):
	}
}
