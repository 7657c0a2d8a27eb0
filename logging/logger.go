// Package logging configures the adapter's logger.
//
// Code in this module logs with the standard library logger, prefixing each
// line with a level, e.g. log.Printf("[TRACE] ..."). Setup routes those lines
// through an hclog logger which infers the level from the prefix and filters
// on it.
package logging

import (
	"io"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/turbot/pg-fdw/config"
)

const loggerName = "pg_fdw"

// NewLogger builds the hclog logger for the adapter.
func NewLogger(cfg *config.Config, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       loggerName,
		Level:      level,
		Output:     output,
		JSONFormat: cfg.LogJSON,
	})
}

// Setup redirects the standard logger through an hclog logger.
func Setup(cfg *config.Config, output io.Writer) hclog.Logger {
	logger := NewLogger(cfg, output)
	log.SetOutput(logger.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true}))
	log.SetPrefix("")
	log.SetFlags(0)
	return logger
}
