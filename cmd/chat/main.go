package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"pairchat/infrastructure/grpc/client"
	"pairchat/services"
	"pairchat/session"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.ServerAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to create client for %s: %w", config.ServerAddr, err)
	}
	defer conn.Close()

	backend := client.NewBackendClient(conn)
	provider := services.NewAuthProvider(logger, backend)
	backend.UseTokens(provider.Token)

	sess := session.New(provider, services.NewDirectoryService(backend), logger)
	sess.Start()
	defer sess.Close()

	// The session file follows every auth change, an empty file means signed out
	sess.OnChange(func(st session.State) {
		if st.Status == session.Initializing {
			return
		}
		if err := saveToken(config.SessionFile, provider.Token()); err != nil {
			logger.Warn("Cannot persist session", "file", config.SessionFile, "error", err)
		}
	})
	if err := provider.Init(ctx, loadToken(config.SessionFile)); err != nil {
		logger.Warn("Stored session discarded", "error", err)
	}

	cli := newCLI(os.Stdout, sess, backend)
	if err := cli.Run(ctx, os.Stdin); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

func loadToken(path string) services.Token {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return services.Token(strings.TrimSpace(string(raw)))
}

func saveToken(path string, token services.Token) error {
	if token == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return os.WriteFile(path, []byte(token), 0o600)
}
