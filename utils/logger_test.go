package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		l, err := NewLoggerWithLevel(lvl)
		require.NoError(t, err, lvl)
		require.NotNil(t, l)
	}
}

func TestNewLoggerWithBadLevelFallsBack(t *testing.T) {
	l, err := NewLoggerWithLevel("chatty")
	assert.Error(t, err)
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("[test] still logging at %s", "info") })
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("d %d", 1)
		l.Info("i")
		l.Warn("w")
		l.Error("e %v", nil)
		l.Sync()
	})
}
