package services_test

import (
	"context"
	"log/slog"
	"pairchat/contract"
	"pairchat/errors"
	"pairchat/mocks"
	"pairchat/services"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthProvider_Notifies_Listeners_After_Init(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockIAccountService(ctrl)
	provider := services.NewAuthProvider(slog.Default(), accounts)

	var calls []*contract.AuthUser
	sub := provider.OnAuthStateChanged(func(user *contract.AuthUser) {
		calls = append(calls, user)
	})
	defer sub.Unsubscribe()

	// Nothing happens before the initial session is resolved
	req.Empty(calls)

	req.NoError(provider.Init(context.Background(), ""))
	req.Len(calls, 1)
	req.Nil(calls[0])
}

func TestAuthProvider_Init_With_Rejected_Token(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockIAccountService(ctrl)
	provider := services.NewAuthProvider(slog.Default(), accounts)

	accounts.EXPECT().Resolve(gomock.Any(), services.Token("stale")).
		Return(contract.AuthUser{}, errors.ErrNotAuthenticated)

	err := provider.Init(context.Background(), "stale")

	req.ErrorIs(err, errors.ErrNotAuthenticated)
	req.Nil(provider.CurrentUser())
	req.Empty(provider.Token())

	// A late listener still learns the session is resolved
	var got []*contract.AuthUser
	provider.OnAuthStateChanged(func(user *contract.AuthUser) { got = append(got, user) })
	req.Equal([]*contract.AuthUser{nil}, got)
}

func TestAuthProvider_SignIn_SignOut(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockIAccountService(ctrl)
	provider := services.NewAuthProvider(slog.Default(), accounts)
	req.NoError(provider.Init(context.Background(), ""))

	alice := contract.AuthUser{UID: "u1", Email: "alice@example.com"}
	accounts.EXPECT().Login(gomock.Any(), "alice@example.com", "secret1").
		Return(alice, services.Token("tok-1"), nil)

	var states []*contract.AuthUser
	sub := provider.OnAuthStateChanged(func(user *contract.AuthUser) { states = append(states, user) })

	// When signing in
	user, err := provider.SignIn(context.Background(), "alice@example.com", "secret1")
	req.NoError(err)
	req.Equal(alice, user)
	req.Equal(services.Token("tok-1"), provider.Token())

	// Then signing out
	req.NoError(provider.SignOut(context.Background()))
	req.Nil(provider.CurrentUser())

	// Initial nil, alice, then nil again
	req.Len(states, 3)
	req.Nil(states[0])
	req.Equal("u1", states[1].UID)
	req.Nil(states[2])

	// No more deliveries once unsubscribed
	sub.Unsubscribe()
	sub.Unsubscribe()
	accounts.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(alice, services.Token("tok-2"), nil)
	_, err = provider.SignIn(context.Background(), "alice@example.com", "secret1")
	req.NoError(err)
	req.Len(states, 3)
}

func TestAuthProvider_SignIn_Failure_Keeps_State(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockIAccountService(ctrl)
	provider := services.NewAuthProvider(slog.Default(), accounts)
	req.NoError(provider.Init(context.Background(), ""))

	accounts.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(contract.AuthUser{}, services.Token(""), errors.ErrInvalidCredentials)

	_, err := provider.SignIn(context.Background(), "bob@example.com", "bad")

	req.ErrorIs(err, errors.ErrInvalidCredentials)
	req.Nil(provider.CurrentUser())
}

func TestAuthProvider_UpdateProfile(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockIAccountService(ctrl)
	provider := services.NewAuthProvider(slog.Default(), accounts)

	// Without a session nothing is sent
	_, err := provider.UpdateProfile(context.Background(), "Alice", "")
	req.ErrorIs(err, errors.ErrNotAuthenticated)

	accounts.EXPECT().Register(gomock.Any(), "alice@example.com", "secret1").
		Return(contract.AuthUser{UID: "u1", Email: "alice@example.com"}, services.Token("tok"), nil)
	accounts.EXPECT().UpdateProfile(gomock.Any(), services.Token("tok"), "Alice", "").
		Return(contract.AuthUser{UID: "u1", Email: "alice@example.com", DisplayName: "Alice"}, nil)

	_, err = provider.SignUp(context.Background(), "alice@example.com", "secret1")
	req.NoError(err)

	notified := 0
	provider.OnAuthStateChanged(func(*contract.AuthUser) { notified++ })
	req.Equal(1, notified)

	user, err := provider.UpdateProfile(context.Background(), "Alice", "")
	req.NoError(err)
	req.Equal("Alice", user.DisplayName)
	req.Equal("Alice", provider.CurrentUser().DisplayName)
	// Profile changes are not auth state changes
	req.Equal(1, notified)
}
