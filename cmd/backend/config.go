package main

import (
	"fmt"
	"time"
)

const (
	storeBadger = "badger"
	storeMongo  = "mongo"
)

type Config struct {
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	Host              string        `env:"HOST,default=0.0.0.0"`
	Port              int           `env:"PORT,default=8080"`
	Store             string        `env:"STORE,default=badger"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	MongoURI          string        `env:"MONGO_URI"`
	MongoDatabase     string        `env:"MONGO_DATABASE,default=pairchat"`
	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,default=0s"`
	EventBufferSize   int           `env:"EVENT_BUFFER_SIZE,default=1024"`
	DebugPort         int           `env:"DEBUG_PORT"`
}

func (c Config) Validate() error {
	switch c.Store {
	case storeBadger:
	case storeMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE=%s", storeMongo)
		}
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", storeBadger, storeMongo, c.Store)
	}
	if c.EventBufferSize <= 0 {
		return fmt.Errorf("EVENT_BUFFER_SIZE must be positive, got %d", c.EventBufferSize)
	}
	return nil
}
