package sink

import (
	"context"
	"pairchat/contract"
	"pairchat/domain/event"
	"sync"
	"sync/atomic"
)

// Finder runs a one-shot query.
type Finder interface {
	Find(ctx context.Context, q contract.Query) ([]contract.Document, error)
}

// QuerySink backs one live query of the embedded store.
// Every change on its collection re-runs the query and delivers the full
// result set. The first failure is reported once and ends the query.
type QuerySink struct {
	mu         sync.Mutex
	closed     atomic.Bool
	finder     Finder
	query      contract.Query
	onSnapshot contract.SnapshotFunc
	onError    contract.ErrorFunc
}

func NewQuerySink(finder Finder, q contract.Query, onSnapshot contract.SnapshotFunc, onError contract.ErrorFunc) *QuerySink {
	return &QuerySink{finder: finder, query: q, onSnapshot: onSnapshot, onError: onError}
}

func (s *QuerySink) Consume(ctx context.Context, _ event.DocumentChanged) error {
	return s.Refresh(ctx)
}

// Refresh delivers the current result set. Deliveries are serialized, so
// the last one always reflects the latest committed state.
func (s *QuerySink) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return nil
	}

	docs, err := s.finder.Find(ctx, s.query)
	if err != nil {
		if ctx.Err() != nil {
			// Deadline of this delivery only, the next change retries.
			return err
		}
		if s.closed.CompareAndSwap(false, true) && s.onError != nil {
			s.onError(err)
		}
		return err
	}
	if s.closed.Load() {
		return nil
	}
	s.onSnapshot(docs)
	return nil
}

// Close stops deliveries. It may be called from a snapshot callback.
func (s *QuerySink) Close() {
	s.closed.Store(true)
}

func (s *QuerySink) Closed() bool {
	return s.closed.Load()
}
