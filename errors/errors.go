package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrUserAlreadyExists  = fmt.Errorf("email already in use")
	ErrInvalidPassword    = fmt.Errorf("invalid registration data")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrEmptyMessage       = fmt.Errorf("message text is empty")
	ErrMissingSender      = fmt.Errorf("message sender is missing")
	ErrMessageTooLong     = fmt.Errorf("message text is too long")
	ErrDocumentNotFound   = fmt.Errorf("document not found")
	ErrInvalidDocument    = fmt.Errorf("invalid document")

	// Form errors, shown as is on the auth screens
	ErrMissingFields    = fmt.Errorf("Please fill in all fields")
	ErrPasswordMismatch = fmt.Errorf("Passwords do not match")
	ErrPasswordTooShort = fmt.Errorf("Password must be at least 6 characters")
)
