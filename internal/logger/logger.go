package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"assignment-tracker/internal/config"
)

// New builds the process logger for the given environment.
func New(env string) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"

	w := io.Writer(os.Stdout)
	level := zerolog.InfoLevel
	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()
}
