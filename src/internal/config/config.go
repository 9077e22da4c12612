// FILE: src/internal/config/config.go
package config

// Config is the complete, validated configuration for a logship sender
// process, loaded from CLI args, environment variables and an optional
// TOML file via LoadWithCLI.
type Config struct {
	AppName string `toml:"app_name"`

	Backend StorageConfig `toml:"backend"`
	Queue   QueueConfig   `toml:"queue"`
	Batch   BatchConfig   `toml:"batch"`
	Retry   RetryConfig   `toml:"retry"`
	Logging LoggingConfig `toml:"logging"`
}

// StorageConfig selects and configures the object-storage backend. Type
// is either "oss" (Aliyun OSS, the default) or "s3" (any S3-compatible
// endpoint, including AWS, MinIO, or OSS's own S3-compatibility mode).
type StorageConfig struct {
	Type            string `toml:"type"`
	Endpoint        string `toml:"endpoint"`
	Region          string `toml:"region"`
	Bucket          string `toml:"bucket"`
	AccessKeyID     string `toml:"access_key_id"`
	AccessKeySecret string `toml:"access_key_secret"`
	ObjectKeyPrefix string `toml:"object_key_prefix"`
	ForcePathStyle  bool   `toml:"force_path_style"`
}

// QueueConfig controls the bounded in-memory queue and its admission
// policy.
type QueueConfig struct {
	MaxSize           int  `toml:"max_size"`
	OfferTimeoutMs    int  `toml:"offer_timeout_ms"`
	DropWhenQueueFull bool `toml:"drop_when_queue_full"`
}

// BatchConfig controls batch composition and compression.
type BatchConfig struct {
	MaxCount        int    `toml:"max_count"`
	MaxBytes        int    `toml:"max_bytes"`
	FlushIntervalMs int    `toml:"flush_interval_ms"`
	Gzip            bool   `toml:"gzip"`
	ContentType     string `toml:"content_type"`
}

// RetryConfig controls the upload retry schedule and the optional
// outbound throttle.
type RetryConfig struct {
	MaxRetries          int     `toml:"max_retries"`
	InitialBackoffMs    int     `toml:"initial_backoff_ms"`
	BackoffMultiplier   float64 `toml:"backoff_multiplier"`
	MaxUploadsPerSecond float64 `toml:"max_uploads_per_second"`
}

// LoggingConfig mirrors the subset of lixenwraith/log options this
// appender exposes to operators.
type LoggingConfig struct {
	Level        string `toml:"level"`
	Output       string `toml:"output"` // "stdout", "stderr", "file", "none"
	Directory    string `toml:"directory"`
	RetentionDays int   `toml:"retention_days"`
}
