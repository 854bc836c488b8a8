package main

type Config struct {
	ServerAddr  string `env:"CHAT_SERVER_ADDR,default=localhost:8080"`
	LogLevel    string `env:"LOG_LEVEL,default=WARN"`
	SessionFile string `env:"SESSION_FILE,default=.pairchat-session"`
}
