package logs

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cube2222/shaclplan/config"
)

func TestInitialize(t *testing.T) {
	defer SetGlobalLogger(zerolog.Nop())

	assert.NoError(t, Initialize(config.LoggingConfig{Level: "warn", Format: "json"}))
	assert.Equal(t, zerolog.WarnLevel, Logger.GetLevel())

	assert.Error(t, Initialize(config.LoggingConfig{Level: "loud", Format: "json"}))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", zerolog.InfoLevel)
	logger.Debug().Msg("hidden")
	logger.Info().Str("node", "union").Msg("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"node":"union"`)
}
