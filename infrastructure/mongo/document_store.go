// Package mongo is an IDocumentStore on MongoDB. Live queries use change
// streams, the server must run as a replica set.
package mongo

import (
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

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const idField = "_id"

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Database("admin").RunCommand(connectCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

type DocumentStore struct {
	db  *mongo.Database
	log *slog.Logger
}

func NewDocumentStore(db *mongo.Database, log *slog.Logger) *DocumentStore {
	return &DocumentStore{db: db, log: log}
}

func validateCollection(collection string) error {
	if collection == "" || strings.ContainsAny(collection, "$\x00") {
		return fmt.Errorf("%w: bad collection name %q", errors.ErrInvalidDocument, collection)
	}
	return nil
}

func (s *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Set replaces the document in a single pipeline update, so the server
// clock ($$NOW) fills the ServerTimestamp fields.
func (s *DocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if err := validateCollection(collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty document id", errors.ErrInvalidDocument)
	}
	if _, err := codec.ToStruct(data); err != nil {
		return err
	}

	replacement := bson.M{idField: bson.M{"$literal": id}}
	for k, v := range data {
		if _, pending := v.(contract.ServerTimestampValue); pending {
			replacement[k] = "$$NOW"
			continue
		}
		replacement[k] = bson.M{"$literal": toBSON(v)}
	}
	pipeline := mongo.Pipeline{{{Key: "$replaceWith", Value: replacement}}}

	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{idField: id}, pipeline,
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (contract.Document, error) {
	if err := validateCollection(collection); err != nil {
		return contract.Document{}, err
	}
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{idField: id}).Decode(&raw)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return contract.Document{}, fmt.Errorf("%w: %s/%s", errors.ErrDocumentNotFound, collection, id)
	}
	if err != nil {
		return contract.Document{}, err
	}
	return toDocument(raw), nil
}

func (s *DocumentStore) Find(ctx context.Context, q contract.Query) ([]contract.Document, error) {
	if err := validateCollection(q.Collection); err != nil {
		return nil, err
	}
	filter := bson.M{}
	for _, f := range q.Filters {
		filter[f.Field] = toBSON(f.Value)
	}

	cursor, err := s.db.Collection(q.Collection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: idField, Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error during %s scan: %w", q.Collection, err)
	}
	defer cursor.Close(ctx)

	docs := make([]contract.Document, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		docs = append(docs, toDocument(raw))
	}
	return docs, cursor.Err()
}

// Watch opens a change stream on the collection before reading the first
// snapshot, so no write can fall in between. Every change re-reads the query.
func (s *DocumentStore) Watch(ctx context.Context, q contract.Query,
	onSnapshot contract.SnapshotFunc, onError contract.ErrorFunc) (contract.Subscription, error) {
	if err := validateCollection(q.Collection); err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := s.db.Collection(q.Collection).Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open change stream on %s: %w", q.Collection, err)
	}

	gate := &sink.Gate{}
	go func() {
		defer cancel()
		defer stream.Close(context.Background())

		if !s.deliver(streamCtx, gate, q, onSnapshot, onError) {
			return
		}
		for stream.Next(streamCtx) {
			if !s.deliver(streamCtx, gate, q, onSnapshot, onError) {
				return
			}
		}
		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			s.log.Warn("Change stream failed", "collection", q.Collection, "error", err)
			if onError != nil {
				gate.Deliver(func() { onError(err) })
			}
		}
	}()
	return contract.NewSubscription(func() {
		gate.Close()
		cancel()
	}), nil
}

// deliver re-reads the query and hands the result over through the gate,
// false ends the watch.
func (s *DocumentStore) deliver(ctx context.Context, gate *sink.Gate, q contract.Query,
	onSnapshot contract.SnapshotFunc, onError contract.ErrorFunc) bool {
	docs, err := s.Find(ctx, q)
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		if onError != nil {
			gate.Deliver(func() { onError(err) })
		}
		return false
	}
	return gate.Deliver(func() { onSnapshot(docs) })
}

// toBSON resolves nested ServerTimestamp values with the local clock,
// only top level fields get the server one.
func toBSON(v any) any {
	switch val := v.(type) {
	case contract.ServerTimestampValue:
		return time.Now().UTC()
	case map[string]any:
		return codec.ResolveServerTimestamps(val, time.Now().UTC())
	case []any:
		return codec.ResolveServerTimestamps(map[string]any{"v": val}, time.Now().UTC())["v"]
	default:
		return v
	}
}

func toDocument(raw bson.M) contract.Document {
	id := fmt.Sprint(raw[idField])
	delete(raw, idField)
	return contract.Document{ID: id, Data: fromBSONMap(raw)}
}

func fromBSONMap(m map[string]any) map[string]any {
	data := make(map[string]any, len(m))
	for k, v := range m {
		data[k] = fromBSON(v)
	}
	return data
}

func fromBSON(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case bson.M:
		return fromBSONMap(val)
	case bson.D:
		return fromBSONMap(val.Map())
	case primitive.A:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = fromBSON(item)
		}
		return items
	default:
		return v
	}
}
