package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestSetupLevelsAndOutputs(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path := filepath.Join(t.TempDir(), "pos.log")
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.NotNil(t, Gorm())

	require.NoError(t, Setup(DefaultConfig()))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	assert.Error(t, Setup(LogConfig{Level: "loud"}))
}

func TestGormLoggerMapsLevels(t *testing.T) {
	defer func() { _ = Setup(DefaultConfig()) }()

	path := filepath.Join(t.TempDir(), "gorm.log")
	require.NoError(t, Setup(LogConfig{Level: "info", Format: "json", Output: path}))

	ctx := context.Background()
	g := Gorm()
	g.Info(ctx, "connected to %s", "chatty")
	g.Warn(ctx, "pool is %s", "saturated")
	g.Error(ctx, "migration %s", "boom")
	g.Trace(ctx, time.Now(), func() (string, int64) {
		return "UPDATE products SET stock = stock - 1", 0
	}, errors.New("deadlock detected"))
	g.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT * FROM sales", 3
	}, nil)
	g.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM shops", 1
	}, gorm.ErrRecordNotFound)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "saturated")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "deadlock detected")
	assert.Contains(t, out, "UPDATE products")
	assert.Contains(t, out, "slow query")
	assert.NotContains(t, out, "chatty")
	assert.NotContains(t, out, "FROM shops")

	g.LogMode(gormlogger.Silent).Error(ctx, "silenced")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "silenced")
}
