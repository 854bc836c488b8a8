package session_test

import (
	"context"
	stderrors "errors"
	"log/slog"
	"pairchat/contract"
	"pairchat/errors"
	"pairchat/mocks"
	"pairchat/session"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	provider *mocks.MockIAuthProvider
	profiles *mocks.MockIProfileWriter
	session  *session.Session
	notify   contract.AuthStateFunc
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		provider: mocks.NewMockIAuthProvider(ctrl),
		profiles: mocks.NewMockIProfileWriter(ctrl),
	}
	f.session = session.New(f.provider, f.profiles, slog.Default())
	f.provider.EXPECT().OnAuthStateChanged(gomock.Any()).
		DoAndReturn(func(fn contract.AuthStateFunc) contract.Subscription {
			f.notify = fn
			return contract.NewSubscription(func() { f.notify = nil })
		})
	f.session.Start()
	return f
}

func TestSession_Starts_Initializing(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// Given the provider has not answered yet
	req.Equal(session.Initializing, f.session.State().Status)
	req.True(f.session.Loading())
	req.False(f.session.IsAuthenticated())

	// When it reports a signed-in user
	f.notify(&contract.AuthUser{UID: "u1"})

	// Then
	req.True(f.session.IsAuthenticated())
	req.False(f.session.Loading())
	req.Equal("u1", f.session.User().UID)

	// And a later sign-out is tracked too
	f.notify(nil)
	req.Equal(session.Unauthenticated, f.session.State().Status)
	req.Nil(f.session.User())
}

func TestSession_Login(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.notify(nil)

	var seen []session.State
	f.session.OnChange(func(s session.State) { seen = append(seen, s) })

	f.provider.EXPECT().SignIn(gomock.Any(), "alice@example.com", "secret1").
		DoAndReturn(func(context.Context, string, string) (contract.AuthUser, error) {
			// Busy while the provider works
			req.True(f.session.Loading())
			return contract.AuthUser{UID: "u1"}, nil
		})

	req.NoError(f.session.Login(context.Background(), "alice@example.com", "secret1"))

	req.True(f.session.IsAuthenticated())
	req.False(f.session.State().Busy)
	req.NotEmpty(seen)
	req.False(seen[len(seen)-1].Busy)
}

func TestSession_Login_Failure(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.notify(nil)

	f.provider.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(contract.AuthUser{}, errors.ErrInvalidCredentials)

	err := f.session.Login(context.Background(), "alice@example.com", "wrong")

	req.ErrorIs(err, errors.ErrInvalidCredentials)
	req.Equal("invalid email or password", err.Error())
	req.False(f.session.IsAuthenticated())
	req.False(f.session.Loading())
}

func TestSession_Register(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.notify(nil)
	ctx := context.Background()

	created := contract.AuthUser{UID: "u1", Email: "alice@example.com"}
	named := contract.AuthUser{UID: "u1", Email: "alice@example.com", DisplayName: "Alice"}
	gomock.InOrder(
		f.provider.EXPECT().SignUp(gomock.Any(), "alice@example.com", "secret1").Return(created, nil),
		f.provider.EXPECT().UpdateProfile(gomock.Any(), "Alice", "").Return(named, nil),
		f.profiles.EXPECT().CreateProfile(gomock.Any(), named, "Alice").Return(nil),
	)

	req.NoError(f.session.Register(ctx, "alice@example.com", "secret1", "Alice"))

	req.True(f.session.IsAuthenticated())
	req.Equal("Alice", f.session.User().DisplayName)
}

func TestSession_Register_Profile_Write_Is_Best_Effort(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.notify(nil)

	created := contract.AuthUser{UID: "u1", Email: "alice@example.com"}
	f.provider.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).Return(created, nil)
	f.provider.EXPECT().UpdateProfile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.profiles.EXPECT().CreateProfile(gomock.Any(), created, "").Return(stderrors.New("denied"))

	// Without display name, and with a failing directory write
	err := f.session.Register(context.Background(), "alice@example.com", "secret1", "")

	// Then registration still succeeds
	req.NoError(err)
	req.True(f.session.IsAuthenticated())
}

func TestSession_Register_Failure(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.notify(nil)

	f.provider.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(contract.AuthUser{}, errors.ErrUserAlreadyExists)
	f.profiles.EXPECT().CreateProfile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := f.session.Register(context.Background(), "alice@example.com", "secret1", "Alice")

	req.ErrorIs(err, errors.ErrUserAlreadyExists)
	req.False(f.session.IsAuthenticated())
	req.False(f.session.Loading())
}

func TestSession_Logout(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.notify(&contract.AuthUser{UID: "u1"})

	boom := stderrors.New("network down")
	f.provider.EXPECT().SignOut(gomock.Any()).Return(boom)

	err := f.session.Logout(context.Background())

	// The error is surfaced, the local state is cleared anyway
	req.ErrorIs(err, boom)
	req.False(f.session.IsAuthenticated())
	req.Nil(f.session.User())
}

func TestSession_Logout_Success(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.notify(&contract.AuthUser{UID: "u1"})

	var seen []session.State
	f.session.OnChange(func(s session.State) { seen = append(seen, s) })

	f.provider.EXPECT().SignOut(gomock.Any()).
		DoAndReturn(func(context.Context) error {
			// Busy and already signed out locally while the provider works
			req.True(f.session.Loading())
			req.Nil(f.session.User())
			return nil
		})

	req.NoError(f.session.Logout(context.Background()))

	// Then
	req.False(f.session.IsAuthenticated())
	req.Nil(f.session.User())
	req.False(f.session.Loading())
	req.Equal(session.Unauthenticated, f.session.State().Status)

	// Busy set, user cleared, busy cleared
	req.Len(seen, 3)
	req.True(seen[0].Busy)
	req.Equal(session.Authenticated, seen[0].Status)
	req.True(seen[1].Busy)
	req.Equal(session.Unauthenticated, seen[1].Status)
	req.False(seen[2].Busy)
	req.Equal(session.Unauthenticated, seen[2].Status)
}

func TestSession_Close(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.session.Close()
	f.session.Close()

	req.Nil(f.notify)
}
