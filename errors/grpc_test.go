package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCErrors_RoundTrip(t *testing.T) {
	for _, w := range wireErrors {
		t.Run(w.err.Error(), func(t *testing.T) {
			req := require.New(t)
			wrapped := fmt.Errorf("while doing something: %w", w.err)

			st := MapToGRPCError(wrapped)

			req.Equal(w.code, status.Code(st))
			req.ErrorIs(FromGRPCError(st), w.err)
		})
	}
}

func TestMapToGRPCError(t *testing.T) {
	req := require.New(t)

	req.NoError(MapToGRPCError(nil))

	// Unknown errors become Internal
	err := MapToGRPCError(stderrors.New("disk on fire"))
	req.Equal(codes.Internal, status.Code(err))

	// An existing status is kept as is
	original := status.Error(codes.Unavailable, "later")
	req.Equal(original, MapToGRPCError(original))
}

func TestFromGRPCError(t *testing.T) {
	req := require.New(t)

	req.NoError(FromGRPCError(nil))

	plain := stderrors.New("plain")
	req.Equal(plain, FromGRPCError(plain))

	// Any rejected token reads as not authenticated
	err := FromGRPCError(status.Error(codes.Unauthenticated, "invalid or expired token"))
	req.ErrorIs(err, ErrNotAuthenticated)
	req.Contains(err.Error(), "invalid or expired token")

	unavailable := status.Error(codes.Unavailable, "connection refused")
	req.Equal(codes.Unavailable, status.Code(FromGRPCError(unavailable)))
}
