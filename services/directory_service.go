//go:generate go run go.uber.org/mock/mockgen -source=directory_service.go -destination=../mocks/mock_directory_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"pairchat/codec"
	"pairchat/contract"
	"pairchat/domain"
	"strings"
	"time"

	"github.com/samber/lo"
)

const UsersCollection = "users"

type IDirectoryService interface {
	Fetch(ctx context.Context) ([]domain.User, error)
}

// IProfileWriter publishes the directory entry of a freshly registered user.
type IProfileWriter interface {
	CreateProfile(ctx context.Context, user contract.AuthUser, displayName string) error
}

type DirectoryService struct {
	store contract.IDocumentStore
	now   func() time.Time
}

func NewDirectoryService(store contract.IDocumentStore) *DirectoryService {
	return &DirectoryService{store: store, now: time.Now}
}

// Fetch reads the whole directory once. There is no pagination.
func (s *DirectoryService) Fetch(ctx context.Context) ([]domain.User, error) {
	docs, err := s.store.Find(ctx, contract.Query{Collection: UsersCollection})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return lo.Map(docs, func(doc contract.Document, _ int) domain.User {
		return toUser(doc)
	}), nil
}

// CreateProfile writes users/{uid}. The display name falls back to the
// identity's own, then to the local part of the email.
func (s *DirectoryService) CreateProfile(ctx context.Context, user contract.AuthUser, displayName string) error {
	name := lo.CoalesceOrEmpty(displayName, user.DisplayName, emailLocalPart(user.Email))
	now := s.now().UTC()
	err := s.store.Set(ctx, UsersCollection, user.UID, map[string]any{
		"uid":         user.UID,
		"email":       user.Email,
		"displayName": name,
		"photoURL":    user.PhotoURL,
		"status":      domain.StatusOnline,
		"createdAt":   now,
		"updatedAt":   now,
		"lastSeen":    now,
	})
	if err != nil {
		return fmt.Errorf("failed to create profile of %s: %w", user.UID, err)
	}
	return nil
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func toUser(doc contract.Document) domain.User {
	lastSeen, _ := codec.AsTime(doc.Data, "lastSeen")
	return domain.User{
		UID:         doc.ID,
		Email:       codec.AsString(doc.Data, "email"),
		DisplayName: codec.AsString(doc.Data, "displayName"),
		PhotoURL:    codec.AsString(doc.Data, "photoURL"),
		Status:      codec.AsString(doc.Data, "status"),
		LastSeen:    lastSeen,
	}
}
