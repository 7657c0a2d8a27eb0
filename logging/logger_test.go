package logging

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turbot/pg-fdw/config"
)

func TestSetupFiltersByInferredLevel(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	defer log.SetFlags(log.LstdFlags)

	var buf bytes.Buffer
	Setup(&config.Config{LogLevel: "info"}, &buf)

	log.Printf("[TRACE] hidden detail")
	log.Printf("[WARN] visible warning")

	out := buf.String()
	assert.NotContains(t, out, "hidden detail")
	assert.Contains(t, out, "visible warning")
	assert.Contains(t, out, "[WARN]")
}

func TestNewLoggerUnknownLevelDefaultsToWarn(t *testing.T) {
	logger := NewLogger(&config.Config{LogLevel: "chatty"}, &bytes.Buffer{})
	assert.True(t, logger.IsWarn())
	assert.False(t, logger.IsInfo())
}
