package e2e

import (
	"context"
	"fmt"
	"pairchat/infrastructure/grpc/client"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var dump = protojson.MarshalOptions{UseProtoNames: true, Multiline: true, EmitUnpopulated: true}

type BaseGrpcSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment and skips everything without a backend.
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.BackendAddr == "" {
		s.T().Skip("E2E_BACKEND_ADDR not set")
	}
}

func (s *BaseGrpcSuite) step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// logCalls reports every unary call, with bodies when E2E_DEBUG_JSON is set.
// Credentials travel in SignUp and SignIn bodies.
func (s *BaseGrpcSuite) logCalls(t *testing.T) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		t.Logf("GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))
		if !s.Config.DebugJSON {
			return err
		}
		t.Logf("REQUEST:\n%s", dump.Format(req.(proto.Message)))
		if err != nil {
			t.Logf("ERROR: %v", err)
		} else {
			t.Logf("RESPONSE:\n%s", dump.Format(reply.(proto.Message)))
		}
		return err
	}
}

// logStreams reports opened streams, snapshots are too chatty to dump.
func (s *BaseGrpcSuite) logStreams(t *testing.T) grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string,
		streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		stream, err := streamer(ctx, desc, cc, method, opts...)
		t.Logf("GRPC stream %s [%s]", method, status.Code(err))
		return stream, err
	}
}

func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string, addr string) *grpc.ClientConn {
	s.step(t, name)
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.logCalls(t)),
		grpc.WithStreamInterceptor(s.logStreams(t)),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+addr)
	return conn
}

// WithBackend runs fn with a fresh, signed-out backend client.
func (s *BaseGrpcSuite) WithBackend(name string, fn func(ctx context.Context, backend *client.BackendClient)) {
	conn := s.GrpcConn(s.T(), name, s.Config.BackendAddr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fn(ctx, client.NewBackendClient(conn))
}
