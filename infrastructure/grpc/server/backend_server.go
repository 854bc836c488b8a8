package server

import (
	"context"
	"log/slog"
	"pairchat/auth"
	"pairchat/contract"
	"pairchat/errors"
	"pairchat/infrastructure/grpc/wire"
	"pairchat/services"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// BackendServer exposes the account service and a document store over gRPC.
// Authentication is done by the interceptor, handlers only read the caller
// token from the context.
type BackendServer struct {
	log      *slog.Logger
	accounts services.IAccountService
	store    contract.IDocumentStore
}

var _ wire.BackendServer = (*BackendServer)(nil)

func NewBackendServer(log *slog.Logger, accounts services.IAccountService, store contract.IDocumentStore) *BackendServer {
	return &BackendServer{log: log, accounts: accounts, store: store}
}

func (s *BackendServer) SignUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	user, token, err := s.accounts.Register(ctx, wire.String(in, wire.FieldEmail), wire.String(in, wire.FieldPassword))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return wire.Session(user, token.String()), nil
}

func (s *BackendServer) SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	user, token, err := s.accounts.Login(ctx, wire.String(in, wire.FieldEmail), wire.String(in, wire.FieldPassword))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return wire.Session(user, token.String()), nil
}

// Resolve returns the identity of the caller token.
func (s *BackendServer) Resolve(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	token, ok := auth.TokenFromContext(ctx)
	if !ok {
		return nil, errors.MapToGRPCError(errors.ErrNotAuthenticated)
	}
	user, err := s.accounts.Resolve(ctx, services.Token(token))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return wire.Session(user, ""), nil
}

func (s *BackendServer) UpdateProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	token, ok := auth.TokenFromContext(ctx)
	if !ok {
		return nil, errors.MapToGRPCError(errors.ErrNotAuthenticated)
	}
	user, err := s.accounts.UpdateProfile(ctx, services.Token(token),
		wire.String(in, wire.FieldDisplayName), wire.String(in, wire.FieldPhotoURL))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return wire.Session(user, ""), nil
}

func (s *BackendServer) AddDocument(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	collection, _, data := wire.ReadWrite(in)
	id, err := s.store.Add(ctx, collection, data)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return wire.Ref(collection, id), nil
}

func (s *BackendServer) SetDocument(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	collection, id, data := wire.ReadWrite(in)
	if err := s.store.Set(ctx, collection, id, data); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return wire.Ref(collection, id), nil
}

func (s *BackendServer) GetDocument(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	doc, err := s.store.Get(ctx, wire.String(in, wire.FieldCollection), wire.String(in, wire.FieldID))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	out, err := wire.Document(doc)
	return out, errors.MapToGRPCError(err)
}

func (s *BackendServer) FindDocuments(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	docs, err := s.store.Find(ctx, wire.ReadQuery(in))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	out, err := wire.Documents(docs)
	return out, errors.MapToGRPCError(err)
}

// Watch blocks until the client goes away or the live query fails.
// Snapshots are full result sets, so only the latest pending one is sent.
func (s *BackendServer) Watch(in *structpb.Struct, stream grpc.ServerStream) error {
	ctx := stream.Context()
	q := wire.ReadQuery(in)
	userID, _ := auth.UserIDFromContext(ctx)

	latest := make(chan []contract.Document, 1)
	failed := make(chan error, 1)
	sub, err := s.store.Watch(ctx, q, func(docs []contract.Document) {
		select {
		case <-latest:
		default:
		}
		latest <- docs
	}, func(err error) {
		select {
		case failed <- err:
		default:
		}
	})
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	defer sub.Unsubscribe()
	s.log.Debug("Watch opened", "user_id", userID, "collection", q.Collection)

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Watch closed", "user_id", userID, "collection", q.Collection)
			return nil
		case err := <-failed:
			s.log.Warn("Live query failed", "user_id", userID, "collection", q.Collection, "error", err)
			return errors.MapToGRPCError(err)
		case docs := <-latest:
			out, err := wire.Documents(docs)
			if err != nil {
				return errors.MapToGRPCError(err)
			}
			if err := stream.SendMsg(out); err != nil {
				s.log.Error("failed to push snapshot to stream",
					"user_id", userID,
					"collection", q.Collection,
					"error", err)
				return err
			}
		}
	}
}
