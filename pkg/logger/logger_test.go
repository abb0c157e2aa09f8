package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetCreatesDefaultLogger(t *testing.T) {
	log := Get()
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestInitReplacesEarlierLogger(t *testing.T) {
	// package-init consumers call Get before the CLI runs Init; the flag
	// configuration must still win
	_ = Get()

	require.NoError(t, Init(Config{Level: "error", Encoding: "console"}))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.ErrorLevel))

	require.NoError(t, Init(Config{Level: "debug", Encoding: "console"}))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))
}

func TestInitRejectsBadLevel(t *testing.T) {
	require.Error(t, Init(Config{Level: "loud", Encoding: "console"}))
}
