// FILE: src/internal/config/validation.go
package config

import (
	"fmt"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// validateConfig is the centralized validator for the entire
// configuration tree.
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := lconfig.NonEmpty(cfg.AppName); err != nil {
		return fmt.Errorf("app_name: %w", err)
	}

	if err := validateBackend(&cfg.Backend); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if err := validateQueue(&cfg.Queue); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := validateBatch(&cfg.Batch); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := validateRetry(&cfg.Retry); err != nil {
		return fmt.Errorf("retry: %w", err)
	}
	if err := validateLogging(&cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}

func validateBackend(b *StorageConfig) error {
	switch strings.ToLower(b.Type) {
	case "oss", "s3":
		b.Type = strings.ToLower(b.Type)
	default:
		return fmt.Errorf("invalid type '%s' (must be 'oss' or 's3')", b.Type)
	}

	if err := lconfig.NonEmpty(b.Bucket); err != nil {
		return fmt.Errorf("missing bucket")
	}
	if err := lconfig.NonEmpty(b.AccessKeyID); err != nil {
		return fmt.Errorf("missing access_key_id")
	}
	if err := lconfig.NonEmpty(b.AccessKeySecret); err != nil {
		return fmt.Errorf("missing access_key_secret")
	}

	if b.Type == "s3" && b.Region == "" {
		return fmt.Errorf("s3 backend requires region")
	}
	if b.Type == "oss" && b.Endpoint == "" {
		return fmt.Errorf("oss backend requires endpoint")
	}

	if b.ObjectKeyPrefix == "" {
		b.ObjectKeyPrefix = "logs/"
	} else if !strings.HasSuffix(b.ObjectKeyPrefix, "/") {
		b.ObjectKeyPrefix += "/"
	}

	return nil
}

func validateQueue(q *QueueConfig) error {
	if q.MaxSize <= 0 {
		return fmt.Errorf("max_size must be positive")
	}
	// offer_timeout_ms <= 0 selects the unbounded-wait admission policy
	// (queue.OfferWait blocks forever rather than falling through to a
	// timeout); pass it through unchanged instead of rejecting or
	// coercing it to the default.
	return nil
}

func validateBatch(b *BatchConfig) error {
	if b.MaxCount <= 0 {
		return fmt.Errorf("max_count must be positive")
	}
	if b.MaxBytes <= 0 {
		return fmt.Errorf("max_bytes must be positive")
	}
	if b.FlushIntervalMs <= 0 {
		return fmt.Errorf("flush_interval_ms must be positive")
	}
	if b.ContentType == "" {
		b.ContentType = "application/x-ndjson"
	}
	return nil
}

func validateRetry(r *RetryConfig) error {
	if r.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	if r.InitialBackoffMs <= 0 {
		r.InitialBackoffMs = 50
	}
	if r.BackoffMultiplier < 1.0 {
		r.BackoffMultiplier = 2.0
	}
	if r.MaxUploadsPerSecond < 0 {
		return fmt.Errorf("max_uploads_per_second cannot be negative")
	}
	return nil
}

func validateLogging(l *LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if l.Level == "" {
		l.Level = "info"
	} else if !validLevels[strings.ToLower(l.Level)] {
		return fmt.Errorf("invalid level '%s'", l.Level)
	}

	validOutputs := map[string]bool{"stdout": true, "stderr": true, "file": true, "none": true}
	if l.Output == "" {
		l.Output = "stderr"
	} else if !validOutputs[l.Output] {
		return fmt.Errorf("invalid output '%s'", l.Output)
	}

	if l.Output == "file" {
		if err := lconfig.NonEmpty(l.Directory); err != nil {
			return fmt.Errorf("file output requires directory")
		}
		if l.RetentionDays <= 0 {
			l.RetentionDays = 7
		}
	}

	return nil
}
