//go:generate go run go.uber.org/mock/mockgen -source=account_service.go -destination=../mocks/mock_account_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"pairchat/auth"
	"pairchat/contract"
	"pairchat/errors"
	"pairchat/repositories"
)

// Token is a signed session token.
type Token string

func (t Token) String() string {
	return string(t)
}

// IAccountService is the credential backend: it creates accounts, checks
// passwords and turns tokens back into identities.
type IAccountService interface {
	Register(ctx context.Context, email, password string) (contract.AuthUser, Token, error)
	Login(ctx context.Context, email, password string) (contract.AuthUser, Token, error)
	Resolve(ctx context.Context, token Token) (contract.AuthUser, error)
	UpdateProfile(ctx context.Context, token Token, displayName, photoURL string) (contract.AuthUser, error)
}

type AccountService struct {
	accountRepository repositories.IAccountRepository
	tokens            auth.TokenManager
}

func NewAccountService(repo repositories.IAccountRepository, tokens auth.TokenManager) *AccountService {
	return &AccountService{accountRepository: repo, tokens: tokens}
}

func (s *AccountService) Register(_ context.Context, email, password string) (contract.AuthUser, Token, error) {
	// 1. Validate before any expensive cryptographic operation
	if err := auth.ValidateRegister(auth.RegisterRequest{Email: email, Password: password}); err != nil {
		return contract.AuthUser{}, "", err
	}

	// 2. Hash here so the repository never sees plain passwords
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return contract.AuthUser{}, "", fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist, ErrUserAlreadyExists propagates when the email is taken
	account, err := s.accountRepository.CreateAccount(email, hashedPassword)
	if err != nil {
		return contract.AuthUser{}, "", err
	}

	token, err := s.tokens.GenerateToken(account.UID, account.Email)
	if err != nil {
		return contract.AuthUser{}, "", errors.ErrTokenGeneration
	}
	return toAuthUser(account), Token(token), nil
}

func (s *AccountService) Login(_ context.Context, email, password string) (contract.AuthUser, Token, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Email: email, Password: password}); err != nil {
		return contract.AuthUser{}, "", err
	}

	account, err := s.accountRepository.GetAccountByEmail(email)
	if err != nil {
		// Same error whatever the cause, to prevent user enumeration
		return contract.AuthUser{}, "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, account.PasswordHash)
	if err != nil || !match {
		return contract.AuthUser{}, "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(account.UID, account.Email)
	if err != nil {
		return contract.AuthUser{}, "", errors.ErrTokenGeneration
	}
	return toAuthUser(account), Token(token), nil
}

// Resolve returns the identity a still valid token belongs to.
func (s *AccountService) Resolve(_ context.Context, token Token) (contract.AuthUser, error) {
	claims, err := s.tokens.ValidateToken(token.String())
	if err != nil {
		return contract.AuthUser{}, fmt.Errorf("%w: %v", errors.ErrNotAuthenticated, err)
	}
	account, err := s.accountRepository.GetAccount(claims.UserID)
	if err != nil {
		if stderrors.Is(err, errors.ErrDocumentNotFound) {
			return contract.AuthUser{}, errors.ErrNotAuthenticated
		}
		return contract.AuthUser{}, err
	}
	return toAuthUser(account), nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, token Token, displayName, photoURL string) (contract.AuthUser, error) {
	if err := auth.ValidateProfile(auth.ProfileRequest{DisplayName: displayName, PhotoURL: photoURL}); err != nil {
		return contract.AuthUser{}, err
	}
	user, err := s.Resolve(ctx, token)
	if err != nil {
		return contract.AuthUser{}, err
	}
	account, err := s.accountRepository.UpdateProfile(user.UID, displayName, photoURL)
	if err != nil {
		return contract.AuthUser{}, err
	}
	return toAuthUser(account), nil
}

func toAuthUser(a repositories.Account) contract.AuthUser {
	return contract.AuthUser{
		UID:         a.UID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		PhotoURL:    a.PhotoURL,
	}
}
