package presenter

import (
	"context"
	"pairchat/domain"
	"pairchat/services"
	"sync"
)

type HomeState struct {
	Users   []domain.User
	Query   string
	Loading bool
	Error   string
}

// Home is the directory screen: every user but the signed-in one,
// narrowed by the search text.
type Home struct {
	mu        sync.Mutex
	directory services.IDirectoryService
	selfUID   string
	all       []domain.User
	loaded    bool
	state     HomeState
}

func NewHome(directory services.IDirectoryService, selfUID string) *Home {
	return &Home{directory: directory, selfUID: selfUID, state: HomeState{Loading: true}}
}

// Load fetches the directory the first time only.
func (h *Home) Load(ctx context.Context) error {
	h.mu.Lock()
	loaded := h.loaded
	h.mu.Unlock()
	if loaded {
		return nil
	}
	return h.Refetch(ctx)
}

func (h *Home) Refetch(ctx context.Context) error {
	h.mu.Lock()
	h.state.Loading = true
	h.mu.Unlock()

	users, err := h.directory.Fetch(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Loading = false
	if err != nil {
		h.state.Error = err.Error()
		return err
	}
	h.loaded = true
	h.all = users
	h.state.Error = ""
	h.state.Users = domain.VisibleUsers(h.all, h.selfUID, h.state.Query)
	return nil
}

func (h *Home) Search(query string) []domain.User {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Query = query
	h.state.Users = domain.VisibleUsers(h.all, h.selfUID, query)
	return h.state.Users
}

func (h *Home) State() HomeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}
