package runtime

import (
	"pairchat/contract"
	"sync"
)

type Set map[string]struct{}

// Registry maps the live queries of the embedded store to the collections
// they listen to.
type Registry struct {
	mu                sync.RWMutex
	Watchers          map[string]contract.EventSink // map watcher -> Sink
	CollectionMembers map[string]Set                // map collection to watchers
}

func NewRegistry() *Registry {
	return &Registry{
		Watchers:          make(map[string]contract.EventSink),
		CollectionMembers: make(map[string]Set),
	}
}

// GetSinksForCollection resolves the watchers of a collection into their sinks.
// Returns nil if nobody listens to the collection.
func (r *Registry) GetSinksForCollection(collection string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.CollectionMembers[collection]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for watcherID := range members {
		if sink, exists := r.Watchers[watcherID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a live query on a collection.
// The collection entry is created on the fly.
func (r *Registry) Subscribe(watcherID, collection string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Watchers[watcherID] = sink

	if _, ok := r.CollectionMembers[collection]; !ok {
		r.CollectionMembers[collection] = make(Set)
	}
	r.CollectionMembers[collection][watcherID] = struct{}{}
}

// Unsubscribe removes a live query. Empty collection sets are dropped.
func (r *Registry) Unsubscribe(watcherID, collection string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Watchers, watcherID)

	if members, ok := r.CollectionMembers[collection]; ok {
		delete(members, watcherID)

		if len(members) == 0 {
			delete(r.CollectionMembers, collection)
		}
	}
}
