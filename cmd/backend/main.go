package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"pairchat/auth"
	"pairchat/codec"
	"pairchat/contract"
	"pairchat/infrastructure/grpc/server"
	"pairchat/infrastructure/grpc/wire"
	"pairchat/infrastructure/mongo"
	"pairchat/infrastructure/storage"
	"pairchat/repositories"
	"pairchat/runtime"
	"pairchat/services"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backend terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB), holds accounts and, by default, documents
	db, err := badger.Open(buildBadgerOpts(ctx, config, logger))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if config.DebugPort > 0 {
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))
		database.StartDebugServer(db, config.DebugPort, "/inspect", DocumentMapper)
	}

	errChan := make(chan error, 1)

	// 3. Document store
	var store contract.IDocumentStore
	switch config.Store {
	case storeMongo:
		client, err := mongo.Connect(ctx, config.MongoURI)
		if err != nil {
			return exitRuntime, err
		}
		defer func() {
			logger.Info("Disconnecting MongoDB...")
			_ = client.Disconnect(context.Background())
		}()
		store = mongo.NewDocumentStore(client.Database(config.MongoDatabase), logger)
	default:
		orchestrator := runtime.NewOrchestrator(logger, db, runtime.Config{
			BufferSize:     config.EventBufferSize,
			SinkTimeout:    config.SinkTimeout,
			RestartDelay:   config.RestartInterval,
			MetricInterval: config.MetricInterval,
		})
		go orchestrator.Start(ctx)
		defer orchestrator.Stop()
		store = orchestrator.Store()
	}
	logger.Info("Document store ready", "store", config.Store)

	// 4. Accounts
	tokens := auth.NewTokenManager(config.AuthSecret, config.AuthTokenDuration)
	accounts := services.NewAccountService(repositories.NewAccountRepository(db), tokens)
	interceptor := auth.NewInterceptor(tokens, wire.PublicMethods()...)

	// 5. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(logger), interceptor.Unary()),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
	)
	wire.RegisterBackendServer(s, server.NewBackendServer(logger, accounts, store))

	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !stderrors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 7. Final Cleanup
	logger.Info("Shutting down gracefully...")
	s.GracefulStop()
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(ctx context.Context, config Config, logger *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// DocumentMapper shows documents decoded, other keys (accounts) are left raw.
func DocumentMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	collection, id, ok := storage.ParseDocumentKey([]byte(key))
	if !ok {
		row.Type = "RAW"
		return row
	}

	var s structpb.Struct
	if err := proto.Unmarshal(val, &s); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = collection
	row.Detail = fmt.Sprintf("%s %v", id, codec.FromStruct(&s))
	return row
}
