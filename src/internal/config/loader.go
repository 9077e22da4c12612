// FILE: src/internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

func defaults() *Config {
	return &Config{
		AppName: "app",
		Backend: StorageConfig{
			Type:            "oss",
			ObjectKeyPrefix: "logs/",
		},
		Queue: QueueConfig{
			MaxSize:           200_000,
			OfferTimeoutMs:    500,
			DropWhenQueueFull: false,
		},
		Batch: BatchConfig{
			MaxCount:        5_000,
			MaxBytes:        4 * 1024 * 1024,
			FlushIntervalMs: 2000,
			Gzip:            true,
			ContentType:     "application/x-ndjson",
		},
		Retry: RetryConfig{
			MaxRetries:        5,
			InitialBackoffMs:  200,
			BackoffMultiplier: 2.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
		},
	}
}

// LoadWithCLI loads configuration layered from CLI args, environment
// variables prefixed LOGSHIP_, and an optional TOML file, in that
// precedence order, falling back to defaults() for anything unset.
func LoadWithCLI(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("LOGSHIP_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, validateConfig(finalConfig)
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = "LOGSHIP_" + env
	return env
}

// GetConfigPath resolves the TOML config path from the environment,
// falling back to ~/.config/logship.toml.
func GetConfigPath() string {
	if configFile := os.Getenv("LOGSHIP_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("LOGSHIP_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("LOGSHIP_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "logship.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "logship.toml")
	}

	return "logship.toml"
}
