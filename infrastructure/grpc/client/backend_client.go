package client

import (
	"context"
	stderrors "errors"
	"io"
	"pairchat/contract"
	"pairchat/errors"
	"pairchat/infrastructure/grpc/wire"
	"pairchat/services"
	"pairchat/sink"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// TokenSource returns the bearer token attached to store calls.
type TokenSource func() services.Token

// BackendClient talks to a pairchat backend. It is both the account service
// of an AuthProvider and a remote IDocumentStore.
type BackendClient struct {
	cc     grpc.ClientConnInterface
	mu     sync.RWMutex
	tokens TokenSource
}

var (
	_ services.IAccountService = (*BackendClient)(nil)
	_ contract.IDocumentStore  = (*BackendClient)(nil)
)

func NewBackendClient(cc grpc.ClientConnInterface) *BackendClient {
	return &BackendClient{cc: cc}
}

// UseTokens sets where store calls take their token from,
// usually AuthProvider.Token.
func (c *BackendClient) UseTokens(tokens TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

func (c *BackendClient) currentToken() services.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens()
}

func withToken(ctx context.Context, token services.Token) context.Context {
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token.String())
}

func (c *BackendClient) invoke(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, wire.FullMethod(method), in, out); err != nil {
		return nil, errors.FromGRPCError(err)
	}
	return out, nil
}

func (c *BackendClient) session(ctx context.Context, method string, in *structpb.Struct) (contract.AuthUser, services.Token, error) {
	out, err := c.invoke(ctx, method, in)
	if err != nil {
		return contract.AuthUser{}, "", err
	}
	user, token, err := wire.ReadSession(out)
	if err != nil {
		return contract.AuthUser{}, "", err
	}
	return user, services.Token(token), nil
}

func (c *BackendClient) Register(ctx context.Context, email, password string) (contract.AuthUser, services.Token, error) {
	return c.session(ctx, wire.MethodSignUp, wire.Credentials(email, password))
}

func (c *BackendClient) Login(ctx context.Context, email, password string) (contract.AuthUser, services.Token, error) {
	return c.session(ctx, wire.MethodSignIn, wire.Credentials(email, password))
}

func (c *BackendClient) Resolve(ctx context.Context, token services.Token) (contract.AuthUser, error) {
	user, _, err := c.session(withToken(ctx, token), wire.MethodResolve, &structpb.Struct{})
	return user, err
}

func (c *BackendClient) UpdateProfile(ctx context.Context, token services.Token, displayName, photoURL string) (contract.AuthUser, error) {
	user, _, err := c.session(withToken(ctx, token), wire.MethodUpdateProfile, wire.Profile(displayName, photoURL))
	return user, err
}

func (c *BackendClient) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	in, err := wire.Write(collection, "", data)
	if err != nil {
		return "", err
	}
	out, err := c.invoke(withToken(ctx, c.currentToken()), wire.MethodAddDocument, in)
	if err != nil {
		return "", err
	}
	return wire.String(out, wire.FieldID), nil
}

func (c *BackendClient) Set(ctx context.Context, collection, id string, data map[string]any) error {
	in, err := wire.Write(collection, id, data)
	if err != nil {
		return err
	}
	_, err = c.invoke(withToken(ctx, c.currentToken()), wire.MethodSetDocument, in)
	return err
}

func (c *BackendClient) Get(ctx context.Context, collection, id string) (contract.Document, error) {
	out, err := c.invoke(withToken(ctx, c.currentToken()), wire.MethodGetDocument, wire.Ref(collection, id))
	if err != nil {
		return contract.Document{}, err
	}
	return wire.ReadDocument(out), nil
}

func (c *BackendClient) Find(ctx context.Context, q contract.Query) ([]contract.Document, error) {
	in, err := wire.Query(q)
	if err != nil {
		return nil, err
	}
	out, err := c.invoke(withToken(ctx, c.currentToken()), wire.MethodFindDocuments, in)
	if err != nil {
		return nil, err
	}
	return wire.ReadDocuments(out), nil
}

// Watch opens a server stream and delivers its snapshots from a dedicated
// goroutine. A broken stream is reported once through onError.
func (c *BackendClient) Watch(ctx context.Context, q contract.Query,
	onSnapshot contract.SnapshotFunc, onError contract.ErrorFunc) (contract.Subscription, error) {
	in, err := wire.Query(q)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(withToken(ctx, c.currentToken()))
	stream, err := c.cc.NewStream(streamCtx, wire.WatchStreamDesc, wire.FullMethod(wire.MethodWatch))
	if err != nil {
		cancel()
		return nil, errors.FromGRPCError(err)
	}
	if err := stream.SendMsg(in); err != nil {
		cancel()
		return nil, errors.FromGRPCError(err)
	}
	if err := stream.CloseSend(); err != nil {
		cancel()
		return nil, errors.FromGRPCError(err)
	}

	gate := &sink.Gate{}
	go func() {
		defer cancel()
		for {
			out := new(structpb.Struct)
			if err := stream.RecvMsg(out); err != nil {
				if streamCtx.Err() == nil && !stderrors.Is(err, io.EOF) && onError != nil {
					gate.Deliver(func() { onError(errors.FromGRPCError(err)) })
				}
				return
			}
			docs := wire.ReadDocuments(out)
			if !gate.Deliver(func() { onSnapshot(docs) }) {
				return
			}
		}
	}()
	return contract.NewSubscription(func() {
		gate.Close()
		cancel()
	}), nil
}
