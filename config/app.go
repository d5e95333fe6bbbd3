package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

var (
	appOnce   sync.Once
	appConfig *AppConfig
)

// AppConfig holds settings for the HTTP binaries. It can be read from a YAML
// file named by APP_CONFIG; environment variables override file values.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Logging logger.Config `yaml:"logging"`
}

type ServerConfig struct {
	Addr          string   `yaml:"addr"`
	MaxUploadSize int64    `yaml:"maxUploadSize"`
	AllowOrigins  []string `yaml:"allowOrigins"`
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Addr:          ":8080",
			MaxUploadSize: 20 * 1024 * 1024,
			AllowOrigins:  []string{"*"},
		},
		Logging: logger.DefaultConfig(),
	}
}

// LoadAppConfig reads path (if non-empty) and applies environment overrides.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := defaultAppConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.Server.Addr = envString("SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.MaxUploadSize = int64(envInt("MAX_UPLOAD_SIZE", int(cfg.Server.MaxUploadSize)))
	cfg.Logging.Level = envString("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Encoding = envString("LOG_ENCODING", cfg.Logging.Encoding)

	return &cfg, nil
}

// GetAppConfig loads the application config once. A broken config file is fatal
// for the caller, so the error is returned on every call.
func GetAppConfig() (*AppConfig, error) {
	var err error
	appOnce.Do(func() {
		loadDotEnv()
		appConfig, err = LoadAppConfig(os.Getenv("APP_CONFIG"))
	})
	if appConfig == nil && err == nil {
		err = fmt.Errorf("app config unavailable")
	}
	return appConfig, err
}
