package repositories

import (
	"pairchat/errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Create_And_Get_Account(t *testing.T) {
	req := require.New(t)
	repository := NewAccountRepository(openDB(t))

	// When an account is created
	created, err := repository.CreateAccount("  Alice@Example.com ", "hash")
	req.NoError(err)
	req.NotEmpty(created.UID)

	// Then it is found by email, whatever the case, and by uid
	byEmail, err := repository.GetAccountByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(created.UID, byEmail.UID)
	req.Equal("alice@example.com", byEmail.Email)
	req.Equal("hash", byEmail.PasswordHash)
	req.Equal(created.CreatedAt.UnixMilli(), byEmail.CreatedAt.UnixMilli())

	byUID, err := repository.GetAccount(created.UID)
	req.NoError(err)
	req.Equal(byEmail, byUID)
}

func Test_Create_Duplicate_Account(t *testing.T) {
	req := require.New(t)
	repository := NewAccountRepository(openDB(t))

	_, err := repository.CreateAccount("bob@example.com", "hash")
	req.NoError(err)

	_, err = repository.CreateAccount("BOB@example.com", "other")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Unknown_Account(t *testing.T) {
	req := require.New(t)
	repository := NewAccountRepository(openDB(t))

	_, err := repository.GetAccountByEmail("nobody@example.com")
	req.ErrorIs(err, errors.ErrDocumentNotFound)
	_, err = repository.GetAccount("missing")
	req.ErrorIs(err, errors.ErrDocumentNotFound)
	_, err = repository.UpdateProfile("missing", "x", "")
	req.ErrorIs(err, errors.ErrDocumentNotFound)
}

func Test_Update_Profile(t *testing.T) {
	req := require.New(t)
	repository := NewAccountRepository(openDB(t))
	created, err := repository.CreateAccount("clara@example.com", "hash")
	req.NoError(err)

	updated, err := repository.UpdateProfile(created.UID, "Clara", "https://cdn.example.com/c.png")
	req.NoError(err)
	req.Equal("Clara", updated.DisplayName)

	fetched, err := repository.GetAccount(created.UID)
	req.NoError(err)
	req.Equal("Clara", fetched.DisplayName)
	req.Equal("https://cdn.example.com/c.png", fetched.PhotoURL)
	req.Equal("hash", fetched.PasswordHash)
}
