package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ainews-console/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildTeesIntoActivityFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "activity.jsonl")
	cfg := &config.Config{Environment: "development", AppId: "console-test", LogFile: path}

	log, closeFn, err := Build(cfg)
	require.NoError(t, err)

	log.With(zap.String("session", "s-1")).Info("screen loaded", zap.String("screen", "tags"))
	log.Warn("refresh failed")
	require.NoError(t, closeFn())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []activityRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec activityRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}

	require.Len(t, records, 2)
	assert.Equal(t, "screen loaded", records[0].Message)
	assert.Equal(t, "s-1", records[0].Session)
	assert.Equal(t, "tags", records[0].Screen)
	assert.Equal(t, "console-test", records[0].App)
	assert.Equal(t, "warn", records[1].Level)
	assert.Empty(t, records[1].Session)
}

func TestBuildWithoutLogFile(t *testing.T) {
	log, closeFn, err := Build(&config.Config{Environment: "production"})
	require.NoError(t, err)
	log.Info("hello")
	assert.NoError(t, closeFn())
}

func TestLoggingAfterCloseIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	log, closeFn, err := Build(&config.Config{Environment: "development", LogFile: path})
	require.NoError(t, err)

	log.Info("before close")
	require.NoError(t, closeFn())

	require.NotPanics(t, func() {
		log.Info("OnStop hook executed")
		log.Warn("late interaction failed")
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "before close")
	assert.NotContains(t, string(data), "late interaction failed")
}
