package errors

import (
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// wireErrors lists the sentinels that survive a gRPC round trip.
// The status message carries the sentinel text so the client can map it back.
var wireErrors = []struct {
	err  error
	code codes.Code
}{
	{ErrInvalidCredentials, codes.Unauthenticated},
	{ErrNotAuthenticated, codes.Unauthenticated},
	{ErrUserAlreadyExists, codes.AlreadyExists},
	{ErrInvalidPassword, codes.InvalidArgument},
	{ErrEmptyMessage, codes.InvalidArgument},
	{ErrMissingSender, codes.InvalidArgument},
	{ErrMessageTooLong, codes.InvalidArgument},
	{ErrInvalidDocument, codes.InvalidArgument},
	{ErrDocumentNotFound, codes.NotFound},
	{ErrTokenGeneration, codes.Internal},
}

// MapToGRPCError converts a domain error into a gRPC status error.
// Errors that are already a status are returned untouched.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, w := range wireErrors {
		if stderrors.Is(err, w.err) {
			return status.Error(w.code, w.err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}

// FromGRPCError is the client side counterpart of MapToGRPCError.
// A status whose code and message match a known sentinel becomes that sentinel again,
// any other Unauthenticated status wraps ErrNotAuthenticated.
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, w := range wireErrors {
		if st.Code() == w.code && st.Message() == w.err.Error() {
			return w.err
		}
	}
	if st.Code() == codes.Unauthenticated {
		return fmt.Errorf("%w: %s", ErrNotAuthenticated, st.Message())
	}
	return err
}
