package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// newBufferLogger returns a context whose logger writes to the returned buffer.
func newBufferLogger(t *testing.T, enabler zapcore.LevelEnabler) (context.Context, *bytes.Buffer) {
	t.Helper()

	buf := new(bytes.Buffer)

	return ToContext(context.Background(), New(zapcore.AddSync(buf), enabler)), buf
}

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"INFO":   zapcore.InfoLevel,
		" warn ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		"dpanic": zapcore.DPanicLevel,
		"panic":  zapcore.PanicLevel,
		"fatal":  zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("chatty")
	require.False(t, ok)
}

// TestHelpers_WriteThroughContextLogger checks every helper and the level filter.
func TestHelpers_WriteThroughContextLogger(t *testing.T) {
	t.Parallel()

	ctx, buf := newBufferLogger(t, zapcore.InfoLevel)
	ctx = WithKV(WithName(ctx, "security"), "sensor", "DOOR/Hall")

	DebugKV(ctx, "hidden", "k", 1)
	Info(ctx, "plain")
	InfoKV(ctx, "armed", "status", "ARMED_HOME")
	WarnKV(ctx, "alarm raised", "status", "ALARM")
	ErrorKV(ctx, "write failed", "path", "state.yaml")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "INFO security plain")
	require.Contains(t, out, `"status": "ARMED_HOME"`)
	require.Contains(t, out, "WARN security alarm raised")
	require.Contains(t, out, "ERROR security write failed")
	require.Contains(t, out, `"sensor": "DOOR/Hall"`)
}

// TestFromContext_FallsBackToGlobal verifies contexts without a logger use the global one.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, global, FromContext(context.Background()))

	ctx, _ := newBufferLogger(t, zapcore.DebugLevel)
	require.NotSame(t, global, FromContext(ctx))
}

// TestSetLevel verifies the global level follows SetLevel.
//
//nolint:paralleltest // Mutates the global level.
func TestSetLevel(t *testing.T) {
	previous := level.Level()
	t.Cleanup(func() { SetLevel(previous) })

	SetLevel(zapcore.ErrorLevel)
	require.False(t, global.Desugar().Core().Enabled(zapcore.WarnLevel))

	SetLevel(zapcore.DebugLevel)
	require.True(t, global.Desugar().Core().Enabled(zapcore.DebugLevel))
}
