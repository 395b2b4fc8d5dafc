package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host                      string        `env:"HOST,default=localhost"`
	Port                      int           `env:"PORT,default=8080"`
	BadgerFilepath            string        `env:"BADGER_FILEPATH,required=true"`
	HistoryLimit              int           `env:"HISTORY_LIMIT,default=50"`
	ConnectionBufferSize      int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	MaxContentLength          int           `env:"MAX_CONTENT_LENGTH,default=512"`
	MaxFrameBytes             int64         `env:"MAX_FRAME_BYTES,default=4096"`
	LogLevel                  string        `env:"LOG_LEVEL,default=info"`
	ModerationCharReplacement string        `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
	GCInterval                time.Duration `env:"GC_INTERVAL,default=5m"`
	StatsInterval             time.Duration `env:"STATS_INTERVAL,default=30s"`
	ShutdownTimeout           time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	AuthUsersFile             string        `env:"AUTH_USERS_FILE"`
	DebugPort                 int           `env:"DEBUG_PORT,default=0"`
}

func characterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
