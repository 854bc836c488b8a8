// Package session tracks who is signed in on this client.
package session

import (
	"context"
	"log/slog"
	"pairchat/contract"
	"pairchat/services"
	"sync"
)

type Status int

const (
	Initializing Status = iota
	Unauthenticated
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. User is set only when Authenticated.
type State struct {
	Status Status
	User   *contract.AuthUser
	Busy   bool
}

func (s State) IsAuthenticated() bool {
	return s.Status == Authenticated && s.User != nil
}

// Loading is true until the first auth state is known and while an auth
// operation is in flight.
func (s State) Loading() bool {
	return s.Status == Initializing || s.Busy
}

type stateListener struct {
	id uint64
	fn func(State)
}

type Session struct {
	mu        sync.Mutex
	log       *slog.Logger
	provider  contract.IAuthProvider
	profiles  services.IProfileWriter
	state     State
	authSub   contract.Subscription
	listeners []stateListener
	nextID    uint64
}

func New(provider contract.IAuthProvider, profiles services.IProfileWriter, log *slog.Logger) *Session {
	return &Session{
		log:      log,
		provider: provider,
		profiles: profiles,
		state:    State{Status: Initializing},
	}
}

// Start registers the auth-state listener. Its first call resolves Initializing.
func (s *Session) Start() {
	sub := s.provider.OnAuthStateChanged(func(user *contract.AuthUser) {
		s.update(func(st *State) {
			st.User = user
			if user == nil {
				st.Status = Unauthenticated
			} else {
				st.Status = Authenticated
			}
		})
	})
	s.mu.Lock()
	s.authSub = sub
	s.mu.Unlock()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) User() *contract.AuthUser {
	return s.State().User
}

func (s *Session) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

func (s *Session) Loading() bool {
	return s.State().Loading()
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setBusy(true)
	defer s.setBusy(false)

	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.setUser(nil)
		return err
	}
	s.setUser(&user)
	return nil
}

// Register signs up, names the identity then publishes its directory entry.
// The directory write is best effort: a failure is only logged.
func (s *Session) Register(ctx context.Context, email, password, displayName string) error {
	s.setBusy(true)
	defer s.setBusy(false)

	user, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		s.setUser(nil)
		return err
	}
	if displayName != "" {
		user, err = s.provider.UpdateProfile(ctx, displayName, user.PhotoURL)
		if err != nil {
			return err
		}
	}
	s.setUser(&user)

	if err := s.profiles.CreateProfile(ctx, user, displayName); err != nil {
		s.log.Warn("Failed to save user profile", "uid", user.UID, "error", err)
	}
	return nil
}

// Logout clears the local state first, so the client is signed out even
// when the provider fails. Busy while the provider signs out.
func (s *Session) Logout(ctx context.Context) error {
	s.setBusy(true)
	defer s.setBusy(false)

	s.setUser(nil)
	return s.provider.SignOut(ctx)
}

// OnChange calls fn after every state change.
func (s *Session) OnChange(fn func(State)) contract.Subscription {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, stateListener{id: id, fn: fn})
	s.mu.Unlock()

	return contract.NewSubscription(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	})
}

// Close disposes the auth-state listener.
func (s *Session) Close() {
	s.mu.Lock()
	sub := s.authSub
	s.authSub = nil
	s.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

func (s *Session) setBusy(busy bool) {
	s.update(func(st *State) { st.Busy = busy })
}

func (s *Session) setUser(user *contract.AuthUser) {
	s.update(func(st *State) {
		st.User = user
		if user == nil {
			st.Status = Unauthenticated
		} else {
			st.Status = Authenticated
		}
	})
}

// update applies fn then notifies listeners outside the lock.
func (s *Session) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	state := s.state
	listeners := make([]stateListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(state)
	}
}
