package services

import (
	"context"
	"log/slog"
	"pairchat/contract"
	"pairchat/errors"
	"sync"
)

type authListener struct {
	id uint64
	fn contract.AuthStateFunc
}

// AuthProvider keeps the signed-in identity of this process on top of an
// account backend, local or remote, and notifies auth-state listeners.
// Listeners registered before Init are called once the session is resolved.
type AuthProvider struct {
	mu        sync.Mutex
	log       *slog.Logger
	accounts  IAccountService
	resolved  bool
	user      *contract.AuthUser
	token     Token
	listeners []authListener
	nextID    uint64
}

func NewAuthProvider(log *slog.Logger, accounts IAccountService) *AuthProvider {
	return &AuthProvider{log: log, accounts: accounts}
}

// Init resolves the initial session from a previously stored token.
// An empty token means nobody is signed in. A rejected token is reported
// but still resolves the session as signed out.
func (p *AuthProvider) Init(ctx context.Context, token Token) error {
	if token == "" {
		p.setSession(nil, "")
		return nil
	}
	user, err := p.accounts.Resolve(ctx, token)
	if err != nil {
		p.log.Warn("Stored session rejected", "error", err)
		p.setSession(nil, "")
		return err
	}
	p.setSession(&user, token)
	return nil
}

// Token returns the token of the current session, "" when signed out.
func (p *AuthProvider) Token() Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

func (p *AuthProvider) SignIn(ctx context.Context, email, password string) (contract.AuthUser, error) {
	user, token, err := p.accounts.Login(ctx, email, password)
	if err != nil {
		return contract.AuthUser{}, err
	}
	p.setSession(&user, token)
	return user, nil
}

func (p *AuthProvider) SignUp(ctx context.Context, email, password string) (contract.AuthUser, error) {
	user, token, err := p.accounts.Register(ctx, email, password)
	if err != nil {
		return contract.AuthUser{}, err
	}
	p.setSession(&user, token)
	return user, nil
}

// UpdateProfile changes the current identity without notifying listeners,
// the signed-in user stays the same.
func (p *AuthProvider) UpdateProfile(ctx context.Context, displayName, photoURL string) (contract.AuthUser, error) {
	token := p.Token()
	if token == "" {
		return contract.AuthUser{}, errors.ErrNotAuthenticated
	}
	user, err := p.accounts.UpdateProfile(ctx, token, displayName, photoURL)
	if err != nil {
		return contract.AuthUser{}, err
	}

	p.mu.Lock()
	if p.token == token {
		p.user = &user
	}
	p.mu.Unlock()
	return user, nil
}

// SignOut drops the session. Tokens are stateless, nothing is sent to the backend.
func (p *AuthProvider) SignOut(_ context.Context) error {
	p.setSession(nil, "")
	return nil
}

func (p *AuthProvider) CurrentUser() *contract.AuthUser {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyUser(p.user)
}

func (p *AuthProvider) OnAuthStateChanged(fn contract.AuthStateFunc) contract.Subscription {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.listeners = append(p.listeners, authListener{id: id, fn: fn})
	resolved, user := p.resolved, copyUser(p.user)
	p.mu.Unlock()

	if resolved {
		fn(user)
	}

	return contract.NewSubscription(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, l := range p.listeners {
			if l.id == id {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				return
			}
		}
	})
}

// setSession stores the new identity and calls listeners outside the lock,
// so a listener may call back into the provider.
func (p *AuthProvider) setSession(user *contract.AuthUser, token Token) {
	p.mu.Lock()
	p.resolved = true
	p.user = copyUser(user)
	p.token = token
	listeners := make([]authListener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn(copyUser(user))
	}
}

func copyUser(user *contract.AuthUser) *contract.AuthUser {
	if user == nil {
		return nil
	}
	u := *user
	return &u
}
