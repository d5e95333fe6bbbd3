package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOCRServiceConfig_Defaults(t *testing.T) {
	t.Setenv("OCR_MAX_PAGES", "")
	t.Setenv("OCR_MIN_TEXT_LENGTH", "")

	cfg := LoadOCRServiceConfig()
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, 50, cfg.MinTextLength)
	assert.Equal(t, "spa", cfg.Language)
}

func TestLoadOCRServiceConfig_Overrides(t *testing.T) {
	t.Setenv("OCR_MAX_PAGES", "3")
	t.Setenv("OCR_ENGINE", "textract")

	cfg := LoadOCRServiceConfig()
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, "textract", cfg.Engine)
}

func TestLoadOCRServiceConfig_InvalidPageCapFallsBack(t *testing.T) {
	t.Setenv("OCR_MAX_PAGES", "cinco")
	assert.Equal(t, 5, LoadOCRServiceConfig().MaxPages)

	t.Setenv("OCR_MAX_PAGES", "-2")
	assert.Equal(t, 5, LoadOCRServiceConfig().MaxPages)
}

func TestLoadOCRClientConfig_Timeout(t *testing.T) {
	t.Setenv("OCR_TIMEOUT", "")
	assert.Equal(t, 30*time.Second, LoadOCRClientConfig().Timeout)

	t.Setenv("OCR_TIMEOUT", "10")
	assert.Equal(t, 10*time.Second, LoadOCRClientConfig().Timeout)

	t.Setenv("OCR_TIMEOUT", "1500ms")
	assert.Equal(t, 1500*time.Millisecond, LoadOCRClientConfig().Timeout)
}

func TestLoadAppConfig_YAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "server:\n  addr: \":9000\"\n  maxUploadSize: 1024\nlogging:\n  level: debug\n  encoding: console\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("SERVER_ADDR", "")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, int64(1024), cfg.Server.MaxUploadSize)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Encoding)
}

func TestLoadAppConfig_MissingFile(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
