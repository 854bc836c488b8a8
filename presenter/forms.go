package presenter

import (
	stderrors "errors"
	"pairchat/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type SignInForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type SignUpForm struct {
	Name            string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func (f SignInForm) Validate() error {
	if err := validate.Struct(f); err != nil {
		return errors.ErrMissingFields
	}
	return nil
}

// Validate reports the first problem in screen order: missing fields, then
// mismatch, then length.
func (f SignUpForm) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) {
		return err
	}
	failed := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		failed[fe.Field()] = fe.Tag()
		if fe.Tag() == "required" {
			return errors.ErrMissingFields
		}
	}
	if _, ok := failed["ConfirmPassword"]; ok {
		return errors.ErrPasswordMismatch
	}
	return errors.ErrPasswordTooShort
}
