//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"pairchat/domain/event"
	"reflect"
	"sync"
)

// ServerTimestampValue is a sentinel placed in document data.
// The backend replaces it with its own commit time when the write is applied.
type ServerTimestampValue struct{}

var ServerTimestamp = ServerTimestampValue{}

// Document is a record of a collection. Data values are strings, booleans,
// numbers, time.Time, nil, []any, map[string]any or ServerTimestamp.
type Document struct {
	ID   string
	Data map[string]any
}

// Filter is an equality condition on a top level field.
type Filter struct {
	Field string
	Value any
}

type Query struct {
	Collection string
	Filters    []Filter
}

// Where is a shorthand for a single equality query.
func Where(collection, field string, value any) Query {
	return Query{Collection: collection, Filters: []Filter{{Field: field, Value: value}}}
}

// SnapshotFunc receives the full result set of a live query each time it changes.
type SnapshotFunc func(docs []Document)

// ErrorFunc receives the failure that ended a live query.
type ErrorFunc func(err error)

// Subscription is the handle of a live stream.
// Unsubscribe stops deliveries; it is idempotent and safe to call from any goroutine.
type Subscription interface {
	Unsubscribe()
}

type subscriptionFunc struct {
	once sync.Once
	fn   func()
}

func (s *subscriptionFunc) Unsubscribe() {
	s.once.Do(s.fn)
}

// NewSubscription wraps a disposer so that it runs at most once.
func NewSubscription(fn func()) Subscription {
	return &subscriptionFunc{fn: fn}
}

// IDocumentStore is the document database the chat client is built on.
type IDocumentStore interface {
	// Add creates a document with a backend generated id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set creates or replaces the document with the given id.
	Set(ctx context.Context, collection, id string, data map[string]any) error
	Get(ctx context.Context, collection, id string) (Document, error)
	Find(ctx context.Context, q Query) ([]Document, error)
	// Watch opens a live query. The result set is delivered once the query is
	// registered, then again after every matching change, until the subscription
	// is disposed, ctx is done or the stream fails.
	Watch(ctx context.Context, q Query, onSnapshot SnapshotFunc, onError ErrorFunc) (Subscription, error)
}

// AuthUser is the identity known by the authentication backend.
type AuthUser struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// AuthStateFunc is called with the signed-in identity, or nil once signed out.
type AuthStateFunc func(user *AuthUser)

type IAuthProvider interface {
	SignIn(ctx context.Context, email, password string) (AuthUser, error)
	SignUp(ctx context.Context, email, password string) (AuthUser, error)
	// UpdateProfile changes the display name and photo of the signed-in identity.
	UpdateProfile(ctx context.Context, displayName, photoURL string) (AuthUser, error)
	SignOut(ctx context.Context) error
	CurrentUser() *AuthUser
	// OnAuthStateChanged registers fn. Once the provider has resolved the
	// initial session, fn is called with it and then on every change.
	OnAuthStateChanged(fn AuthStateFunc) Subscription
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging during supervision, avoiding a manual name on every worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DocumentChanged) error
}

type IRegistry interface {
	GetSinksForCollection(collection string) []EventSink
	Subscribe(watcherID, collection string, sink EventSink)
	Unsubscribe(watcherID, collection string)
}
