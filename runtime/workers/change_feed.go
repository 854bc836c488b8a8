package workers

import (
	"context"
	"log/slog"
	"pairchat/domain/event"
	"pairchat/infrastructure/storage"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
)

// ChangeFeed turns BadgerDB commits on document keys into DocumentChanged
// events. It is the only producer of the fanout channel.
type ChangeFeed struct {
	log     *slog.Logger
	db      *badger.DB
	changes chan<- event.DocumentChanged
}

func NewChangeFeed(log *slog.Logger, db *badger.DB, changes chan<- event.DocumentChanged) *ChangeFeed {
	return &ChangeFeed{log: log, db: db, changes: changes}
}

// Run blocks until ctx is done. A closed database or a failing subscription
// is reported so the supervisor restarts the feed.
func (w *ChangeFeed) Run(ctx context.Context) error {
	match := []pb.Match{{Prefix: []byte(storage.DocumentPrefix)}}
	err := w.db.Subscribe(ctx, func(list *badger.KVList) error {
		for _, kv := range list.Kv {
			collection, id, ok := storage.ParseDocumentKey(kv.Key)
			if !ok {
				continue
			}
			evt := event.DocumentChanged{
				Collection: collection,
				ID:         id,
				Version:    kv.Version,
				At:         time.Now().UTC(),
			}
			select {
			case w.changes <- evt:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}, match)
	if ctx.Err() != nil {
		w.log.Debug("Context done, stopping change feed")
		return nil
	}
	return err
}
