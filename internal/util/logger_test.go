package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developer-az/food-tracker/internal/config"
)

func TestNewLogger_Defaults(t *testing.T) {
	log, err := NewLogger(config.LogConfig{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestNewLogger_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := NewLogger(config.LogConfig{File: path, Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log.WithField("food", "Banana").Info("created")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"food":"Banana"`)
	assert.Contains(t, string(data), `"msg":"created"`)
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
