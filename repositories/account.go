//go:generate go run go.uber.org/mock/mockgen -source=account.go -destination=../mocks/mock_account_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"pairchat/codec"
	"pairchat/errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type IAccountRepository interface {
	CreateAccount(email, hashedPassword string) (Account, error)
	GetAccountByEmail(email string) (Account, error)
	GetAccount(uid string) (Account, error)
	UpdateProfile(uid, displayName, photoURL string) (Account, error)
}

// Account is the credential record of a user, kept apart from the public directory.
type Account struct {
	UID          string
	Email        string
	PasswordHash string
	DisplayName  string
	PhotoURL     string
	CreatedAt    time.Time
}

type AccountRepository struct {
	db *badger.DB
}

func NewAccountRepository(db *badger.DB) IAccountRepository {
	return &AccountRepository{db: db}
}

// Keys:
//
//	account:email:{email} -> uid
//	account:uid:{uid}     -> Struct encoded account
func emailKey(email string) []byte {
	return []byte("account:email:" + normalizeEmail(email))
}

func uidKey(uid string) []byte {
	return []byte("account:uid:" + uid)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccount persists a new account and its email index in one transaction.
func (r AccountRepository) CreateAccount(email, hashedPassword string) (Account, error) {
	account := Account{
		UID:          uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := marshalAccount(account)
	if err != nil {
		return Account{}, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey(email)); err == nil {
			return errors.ErrUserAlreadyExists
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(emailKey(email), []byte(account.UID)); err != nil {
			return err
		}
		return txn.Set(uidKey(account.UID), data)
	})
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func (r AccountRepository) GetAccountByEmail(email string) (Account, error) {
	var account Account
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if err != nil {
			return err
		}
		uid, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		account, err = getAccount(txn, string(uid))
		return err
	})
	return account, notFound(err)
}

func (r AccountRepository) GetAccount(uid string) (Account, error) {
	var account Account
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		account, err = getAccount(txn, uid)
		return err
	})
	return account, notFound(err)
}

// UpdateProfile replaces the display name and photo of an account.
func (r AccountRepository) UpdateProfile(uid, displayName, photoURL string) (Account, error) {
	var account Account
	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		account, err = getAccount(txn, uid)
		if err != nil {
			return err
		}
		account.DisplayName = displayName
		account.PhotoURL = photoURL
		data, err := marshalAccount(account)
		if err != nil {
			return err
		}
		return txn.Set(uidKey(uid), data)
	})
	return account, notFound(err)
}

func getAccount(txn *badger.Txn, uid string) (Account, error) {
	item, err := txn.Get(uidKey(uid))
	if err != nil {
		return Account{}, err
	}
	var account Account
	err = item.Value(func(val []byte) error {
		var s structpb.Struct
		if err := proto.Unmarshal(val, &s); err != nil {
			return err
		}
		account = toAccount(codec.FromStruct(&s))
		return nil
	})
	return account, err
}

func notFound(err error) error {
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrDocumentNotFound
	}
	return err
}

func marshalAccount(a Account) ([]byte, error) {
	s, err := codec.ToStruct(map[string]any{
		"uid":          a.UID,
		"email":        a.Email,
		"passwordHash": a.PasswordHash,
		"displayName":  a.DisplayName,
		"photoURL":     a.PhotoURL,
		"createdAt":    a.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode account: %w", err)
	}
	return proto.Marshal(s)
}

func toAccount(data map[string]any) Account {
	createdAt, _ := codec.AsTime(data, "createdAt")
	return Account{
		UID:          codec.AsString(data, "uid"),
		Email:        codec.AsString(data, "email"),
		PasswordHash: codec.AsString(data, "passwordHash"),
		DisplayName:  codec.AsString(data, "displayName"),
		PhotoURL:     codec.AsString(data, "photoURL"),
		CreatedAt:    createdAt,
	}
}
