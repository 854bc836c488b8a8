package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"pairchat/codec"
	"pairchat/contract"
	"pairchat/errors"
	"pairchat/sink"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// DocumentPrefix starts every document key: doc:{collection}:{id}
const DocumentPrefix = "doc:"

func documentKey(collection, id string) []byte {
	return []byte(DocumentPrefix + collection + ":" + id)
}

func collectionPrefix(collection string) []byte {
	return []byte(DocumentPrefix + collection + ":")
}

// ParseDocumentKey splits a document key. Ids may contain ':', collections may not.
func ParseDocumentKey(key []byte) (collection, id string, ok bool) {
	rest, found := bytes.CutPrefix(key, []byte(DocumentPrefix))
	if !found {
		return "", "", false
	}
	collection, id, ok = strings.Cut(string(rest), ":")
	if !ok || collection == "" || id == "" {
		return "", "", false
	}
	return collection, id, true
}

// DocumentStore is the embedded IDocumentStore, backed by BadgerDB.
// Live queries are registered in the registry and refreshed by the
// change feed running next to it.
type DocumentStore struct {
	db       *badger.DB
	log      *slog.Logger
	registry contract.IRegistry
	now      func() time.Time
}

func NewDocumentStore(db *badger.DB, registry contract.IRegistry, log *slog.Logger) *DocumentStore {
	return &DocumentStore{
		db:       db,
		log:      log,
		registry: registry,
		now:      time.Now,
	}
}

func validateCollection(collection string) error {
	if collection == "" || strings.Contains(collection, ":") {
		return fmt.Errorf("%w: bad collection name %q", errors.ErrInvalidDocument, collection)
	}
	return nil
}

// Add stores data under a generated id and returns it.
func (s *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Set replaces the whole document. ServerTimestamp values get the commit time.
func (s *DocumentStore) Set(_ context.Context, collection, id string, data map[string]any) error {
	if err := validateCollection(collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty document id", errors.ErrInvalidDocument)
	}

	st, err := codec.ToStruct(codec.ResolveServerTimestamps(data, s.now().UTC()))
	if err != nil {
		return err
	}
	value, err := proto.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(documentKey(collection, id), value)
	})
}

func (s *DocumentStore) Get(_ context.Context, collection, id string) (contract.Document, error) {
	if err := validateCollection(collection); err != nil {
		return contract.Document{}, err
	}

	var doc contract.Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(documentKey(collection, id))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			st, err := unmarshal(v)
			if err != nil {
				return err
			}
			doc = contract.Document{ID: id, Data: codec.FromStruct(st)}
			return nil
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return contract.Document{}, fmt.Errorf("%w: %s/%s", errors.ErrDocumentNotFound, collection, id)
	}
	if err != nil {
		return contract.Document{}, err
	}
	return doc, nil
}

// Find scans the collection and keeps the documents matching every filter,
// in id order.
func (s *DocumentStore) Find(_ context.Context, q contract.Query) ([]contract.Document, error) {
	if err := validateCollection(q.Collection); err != nil {
		return nil, err
	}
	wanted := make(map[string]*structpb.Value, len(q.Filters))
	for _, f := range q.Filters {
		v, err := codec.ToValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", f.Field, err)
		}
		wanted[f.Field] = v
	}

	docs := make([]contract.Document, 0)
	prefix := collectionPrefix(q.Collection)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			_, id, ok := ParseDocumentKey(item.Key())
			if !ok {
				continue
			}
			err := item.Value(func(v []byte) error {
				st, err := unmarshal(v)
				if err != nil {
					return err
				}
				if matches(st, wanted) {
					docs = append(docs, contract.Document{ID: id, Data: codec.FromStruct(st)})
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during %s scan: %w", q.Collection, err)
	}
	return docs, nil
}

func matches(st *structpb.Struct, wanted map[string]*structpb.Value) bool {
	for field, value := range wanted {
		got, ok := st.GetFields()[field]
		if !ok || !proto.Equal(got, value) {
			return false
		}
	}
	return true
}

func unmarshal(v []byte) (*structpb.Struct, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(v, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &st, nil
}

// Watch registers a live query. The first snapshot is computed in the
// background, later ones follow the change feed.
func (s *DocumentStore) Watch(ctx context.Context, q contract.Query,
	onSnapshot contract.SnapshotFunc, onError contract.ErrorFunc) (contract.Subscription, error) {
	if err := validateCollection(q.Collection); err != nil {
		return nil, err
	}
	if onSnapshot == nil {
		return nil, fmt.Errorf("%w: missing snapshot callback", errors.ErrInvalidDocument)
	}

	watcherID := uuid.NewString()
	querySink := sink.NewQuerySink(s, q, onSnapshot, func(err error) {
		s.registry.Unsubscribe(watcherID, q.Collection)
		s.log.Warn("Live query failed", "collection", q.Collection, "error", err)
		if onError != nil {
			onError(err)
		}
	})
	s.registry.Subscribe(watcherID, q.Collection, querySink)

	unsubscribe := func() {
		querySink.Close()
		s.registry.Unsubscribe(watcherID, q.Collection)
	}
	stop := context.AfterFunc(ctx, unsubscribe)
	sub := contract.NewSubscription(func() {
		stop()
		unsubscribe()
	})

	go func() {
		if err := querySink.Refresh(ctx); err != nil && ctx.Err() == nil {
			s.log.Debug("Initial snapshot failed", "collection", q.Collection, "error", err)
		}
	}()
	return sub, nil
}
