// Package runtime runs the embedded document store: change feed, fanout of
// changes to live queries and their supervision. It holds no chat logic.
package runtime

import (
	"context"
	"log/slog"
	"pairchat/contract"
	"pairchat/domain/event"
	"pairchat/infrastructure/storage"
	"pairchat/runtime/workers"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type Config struct {
	BufferSize     int
	SinkTimeout    time.Duration
	RestartDelay   time.Duration
	MetricInterval time.Duration // 0 disables the health monitor
}

type Orchestrator struct {
	log        *slog.Logger
	db         *badger.DB
	config     Config
	registry   *Registry
	supervisor contract.ISupervisor
	changes    chan event.DocumentChanged
	store      *storage.DocumentStore
}

func NewOrchestrator(log *slog.Logger, db *badger.DB, config Config) *Orchestrator {
	registry := NewRegistry()
	return &Orchestrator{
		log:        log,
		db:         db,
		config:     config,
		registry:   registry,
		supervisor: workers.NewSupervisor(log, config.RestartDelay),
		changes:    make(chan event.DocumentChanged, config.BufferSize),
		store:      storage.NewDocumentStore(db, registry, log),
	}
}

// Store is usable before Start, live queries then only get their first snapshot
// until the change feed runs.
func (o *Orchestrator) Store() *storage.DocumentStore {
	return o.store
}

// Start registers the workers and blocks until ctx is done or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	o.supervisor.Add(
		workers.NewChangeFeed(o.log, o.db, o.changes),
		workers.NewEventFanout(o.log, o.registry, o.changes, o.config.SinkTimeout),
	)
	if o.config.MetricInterval > 0 {
		o.supervisor.Add(workers.NewHealthMonitor(o.log,
			[]workers.NamedChannel{{Name: "changes", Channel: o.changes}},
			o.config.MetricInterval))
	}

	o.log.Info("Starting document store workers")
	o.supervisor.Run(ctx)
}

// Stop cancels the workers. The database is left open, it belongs to the caller.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
