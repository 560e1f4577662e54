package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerDiscards(t *testing.T) {
	require.Equal(t, zerolog.Disabled, zerolog.Nop().GetLevel())

	// Must not panic even though nothing is configured.
	Debug().Str("key", "value").Msg("dropped")
	Trace().Msg("dropped")
}

func TestSetGlobalLogger(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { SetGlobalLogger(previous) })

	var buf bytes.Buffer
	SetGlobalLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	Debug().Int("keys", 3).Msg("merged")
	require.Contains(t, buf.String(), `"keys":3`)
	require.Contains(t, buf.String(), `"message":"merged"`)

	buf.Reset()
	Trace().Msg("below level")
	require.Empty(t, buf.String())

	Err(errors.New("boom")).Msg("failed")
	require.Contains(t, buf.String(), `"error":"boom"`)

	buf.Reset()
	sub := With().Str("component", "bimultimap").Logger()
	sub.Warn().Msg("scoped")
	require.Contains(t, buf.String(), `"component":"bimultimap"`)
}
