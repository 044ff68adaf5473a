package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jask/appshell/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, closer, err := New(config.LogConfig{Level: "debug", Format: "json", Path: path})
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("op", "test").Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"op":"test"`)
	require.Contains(t, string(data), `"msg":"hello"`)
}

func TestNewFallsBackToInfo(t *testing.T) {
	log, closer, err := New(config.LogConfig{Level: "loud", Path: "stderr"})
	require.NoError(t, err)
	defer closer.Close()
	require.Equal(t, logrus.InfoLevel, log.GetLevel())
}
