package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_ServiceFieldAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Service: "restaurant-api", Output: &buf})

	log.Info().Msg("dropped")
	log.Warn().Str("table_id", "t1").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "restaurant-api", entry["service"])
	assert.Equal(t, "t1", entry["table_id"])
}

func TestInit_Singleton(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(prev)
	})
	Reset()

	assert.Panics(t, func() { Get() })

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})

	l := Get()
	l.Info().Msg("hello")
	assert.NotZero(t, first.Len())
	assert.Zero(t, second.Len())
}
