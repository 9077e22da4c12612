// FILE: src/cmd/logship/bootstrap.go
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lixenwraith/log"

	"logwisp/src/internal/config"
	"logwisp/src/internal/upload"
)

// initializeLogger sets up the package logger from configuration,
// honoring the -log-output/-log-level flag overrides.
func initializeLogger(cfg *config.Config) (*log.Logger, error) {
	logger := log.NewLogger()

	output := cfg.Logging.Output
	if *logOutput != "" {
		output = *logOutput
	}
	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}

	levelValue, err := parseLogLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	configArgs := []string{fmt.Sprintf("level=%d", levelValue)}

	switch output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_console=false")
	case "stdout":
		configArgs = append(configArgs, "disable_file=true", "enable_console=true", "console_target=stdout")
	case "stderr":
		configArgs = append(configArgs, "disable_file=true", "enable_console=true", "console_target=stderr")
	case "file":
		configArgs = append(configArgs,
			"enable_console=false",
			fmt.Sprintf("directory=%s", cfg.Logging.Directory),
			fmt.Sprintf("name=%s", cfg.AppName),
			fmt.Sprintf("retention_period_hrs=%.1f", float64(cfg.Logging.RetentionDays)*24))
	default:
		return nil, fmt.Errorf("invalid log output mode: %s", output)
	}

	if err := logger.ApplyConfigString(configArgs...); err != nil {
		return nil, err
	}
	return logger, nil
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

// buildUploader constructs the configured Uploader backend.
func buildUploader(ctx context.Context, cfg *config.Config) (upload.Uploader, error) {
	b := cfg.Backend
	switch b.Type {
	case "oss":
		return upload.NewOSSUploader(upload.OSSConfig{
			Endpoint:        b.Endpoint,
			AccessKeyID:     b.AccessKeyID,
			AccessKeySecret: b.AccessKeySecret,
			Bucket:          b.Bucket,
		})
	case "s3":
		return upload.NewS3Uploader(ctx, upload.S3Config{
			Endpoint:        b.Endpoint,
			Region:          b.Region,
			AccessKeyID:     b.AccessKeyID,
			AccessKeySecret: b.AccessKeySecret,
			Bucket:          b.Bucket,
			ForcePathStyle:  b.ForcePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown backend type: %s", b.Type)
	}
}
