package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the root logger. Unknown levels fall back to info.
func New(level string, file string) *zerolog.Logger {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsedLevel = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	var output io.Writer = os.Stdout
	if file != "" {
		output = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		})
	}

	log := zerolog.New(output).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", "transfers-web").
		Logger()

	return &log
}
