package workers

import (
	"context"
	"log/slog"
	"pairchat/contract"
	"pairchat/domain/event"
	"time"
)

// EventFanout delivers document changes to the live queries of the changed
// collection. Each sink gets its own deadline, a slow sink never holds back
// the others. Delivery is best-effort: a failing sink is logged and skipped.
type EventFanout struct {
	log         *slog.Logger
	registry    contract.IRegistry
	changes     <-chan event.DocumentChanged
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry,
	changes <-chan event.DocumentChanged, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, registry: registry, changes: changes, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.changes:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

// Fanout One goroutine for each sink listening to the collection
func (w *EventFanout) Fanout(ctx context.Context, evt event.DocumentChanged) {
	for _, sink := range w.registry.GetSinksForCollection(evt.Collection) {
		go func(sink contract.EventSink) {
			sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
			defer cancel()
			if err := sink.Consume(sinkCtx, evt); err != nil {
				w.log.Warn("Sink failed to consume change",
					"collection", evt.Collection, "id", evt.ID, "error", err)
			}
		}(sink)
	}
}
