package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger.
func InitLogger(level, format string) {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	zerolog.TimeFieldFormat = time.RFC3339Nano

	var output io.Writer = os.Stdout
	if format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()

	log.Info().
		Str("level", logLevel.String()).
		Str("format", format).
		Msg("Logger initialized")
}

// NewLogger creates a new logger scoped to a component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// NewTransformLogger creates a logger whose lines carry component
// "transform" and the given transform_id.
func NewTransformLogger(transformID string) zerolog.Logger {
	return log.With().
		Str("component", "transform").
		Str("transform_id", transformID).
		Logger()
}

// NewPipelineLogger creates a logger scoped to one orchestrator run.
func NewPipelineLogger(runID string) zerolog.Logger {
	return log.With().
		Str("component", "orchestrator").
		Str("run_id", runID).
		Logger()
}
