// Package wire declares the pairchat.Backend gRPC service. Messages are
// google.protobuf.Struct values, no generated code is involved.
package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "pairchat.Backend"

const (
	MethodSignUp        = "SignUp"
	MethodSignIn        = "SignIn"
	MethodResolve       = "Resolve"
	MethodUpdateProfile = "UpdateProfile"
	MethodAddDocument   = "AddDocument"
	MethodSetDocument   = "SetDocument"
	MethodGetDocument   = "GetDocument"
	MethodFindDocuments = "FindDocuments"
	MethodWatch         = "Watch"
)

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PublicMethods can be called without a bearer token.
func PublicMethods() []string {
	return []string{FullMethod(MethodSignUp), FullMethod(MethodSignIn)}
}

type BackendServer interface {
	SignUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	UpdateProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	AddDocument(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SetDocument(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetDocument(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	FindDocuments(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	// Watch sends a snapshot message each time the query result changes.
	Watch(in *structpb.Struct, stream grpc.ServerStream) error
}

type unaryCall func(s BackendServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BackendServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BackendServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(BackendServer).Watch(in, stream)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BackendServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodSignUp, BackendServer.SignUp),
		unary(MethodSignIn, BackendServer.SignIn),
		unary(MethodResolve, BackendServer.Resolve),
		unary(MethodUpdateProfile, BackendServer.UpdateProfile),
		unary(MethodAddDocument, BackendServer.AddDocument),
		unary(MethodSetDocument, BackendServer.SetDocument),
		unary(MethodGetDocument, BackendServer.GetDocument),
		unary(MethodFindDocuments, BackendServer.FindDocuments),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatch,
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "pairchat/backend",
}

// WatchStreamDesc is the client side description of Watch.
var WatchStreamDesc = &ServiceDesc.Streams[0]

// RegisterBackendServer attaches srv to a gRPC server.
func RegisterBackendServer(s grpc.ServiceRegistrar, srv BackendServer) {
	s.RegisterService(&ServiceDesc, srv)
}
