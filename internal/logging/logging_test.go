package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		fallback  string
		want      zerolog.Level
	}{
		{0, "", zerolog.WarnLevel},
		{0, "error", zerolog.ErrorLevel},
		{0, "nonsense", zerolog.WarnLevel},
		{1, "error", zerolog.InfoLevel},
		{2, "", zerolog.DebugLevel},
		{5, "", zerolog.TraceLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.verbosity, tt.fallback), "verbosity=%d fallback=%q", tt.verbosity, tt.fallback)
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel)

	logger.Debug().Msg("hidden")
	logger.Info().Str("view", "home").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "view=home")
}
