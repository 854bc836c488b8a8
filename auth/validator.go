package auth

import (
	"fmt"
	"pairchat/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MinPasswordLength matches the rule shown on the sign-up screen.
const MinPasswordLength = 6

type RegisterRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type ProfileRequest struct {
	DisplayName string `validate:"max=64"`
	PhotoURL    string `validate:"omitempty,url"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}
	return nil
}

func ValidateLogin(req LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		return errors.ErrInvalidCredentials
	}
	return nil
}

func ValidateProfile(req ProfileRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidDocument, err)
	}
	return nil
}
