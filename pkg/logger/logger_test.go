package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { level.SetLevel(zapcore.InfoLevel) })

	SetLevel("debug")
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	SetLevel("nonsense")
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	SetLevel("error")
	assert.False(t, WithComponent("test").Core().Enabled(zapcore.WarnLevel))
}

func TestWithComponent_CallerIsLogSite(t *testing.T) {
	original := L
	t.Cleanup(func() { L = original })

	core, logs := observer.New(zapcore.InfoLevel)
	L = L.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))

	WithComponent("seeder").Info("seeded")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "seeder", entries[0].ContextMap()["component"])
	require.True(t, entries[0].Caller.Defined)
	assert.Equal(t, "logger_test.go", filepath.Base(entries[0].Caller.File))
}
