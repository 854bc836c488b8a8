package main

import (
	"testing"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	environ := env.EnvSet{
		"BADGER_FILEPATH": "/tmp/pairchat",
		"AUTH_SECRET":     "secret",
	}

	var config Config
	err := env.Unmarshal(environ, &config)
	req.NoError(err)

	req.Equal(storeBadger, config.Store)
	req.Equal(8080, config.Port)
	req.Equal(1024, config.EventBufferSize)
	req.NoError(config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	req := require.New(t)
	base := Config{Store: storeBadger, EventBufferSize: 1}

	mongo := base
	mongo.Store = storeMongo
	req.Error(mongo.Validate())
	mongo.MongoURI = "mongodb://localhost:27017"
	req.NoError(mongo.Validate())

	unknown := base
	unknown.Store = "redis"
	req.Error(unknown.Validate())

	empty := base
	empty.EventBufferSize = 0
	req.Error(empty.Validate())
}
