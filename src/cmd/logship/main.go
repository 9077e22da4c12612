// FILE: src/cmd/logship/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logwisp/src/internal/config"
	"logwisp/src/internal/sender"
	"logwisp/src/internal/version"
)

// stdinScanBufSize bounds the largest single line bufio.Scanner will
// accept from stdin before erroring, well above the default 64KiB to
// accommodate oversized records (§4.2's singleton-admission case).
const stdinScanBufSize = 8 * 1024 * 1024

func main() {
	if err := parseFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	if *configFile != "" {
		os.Setenv("LOGSHIP_CONFIG_FILE", *configFile)
	}

	cfg, err := config.LoadWithCLI(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := initializeLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Shutdown(2 * time.Second)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uploader, err := buildUploader(ctx, cfg)
	if err != nil {
		logger.Error("msg", "Failed to build uploader", "error", err)
		os.Exit(1)
	}

	snd, err := sender.New(senderConfigFrom(cfg), uploader, logger)
	if err != nil {
		logger.Error("msg", "Failed to construct sender", "error", err)
		os.Exit(1)
	}

	logger.Info("msg", "logship starting",
		"version", version.Short(),
		"backend", cfg.Backend.Type,
		"bucket", cfg.Backend.Bucket)

	snd.Start(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), stdinScanBufSize)
		for scanner.Scan() {
			line := scanner.Bytes()
			if err := snd.Offer(ctx, line); err != nil {
				logger.Warn("msg", "Offer cancelled", "error", err)
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Error("msg", "Error reading stdin", "error", err)
		}
	}()

	select {
	case <-scanDone:
		logger.Info("msg", "Input exhausted, shutting down")
	case sig := <-sigCh:
		logger.Info("msg", "Shutdown signal received", "signal", sig)
	}

	snd.Stop()
	cancel()

	logger.Info("msg", "logship stopped")
}

func senderConfigFrom(cfg *config.Config) sender.Config {
	return sender.Config{
		AppName:              cfg.AppName,
		ObjectKeyPrefix:      cfg.Backend.ObjectKeyPrefix,
		MaxQueueSize:         cfg.Queue.MaxSize,
		MaxBatchCount:        cfg.Batch.MaxCount,
		MaxBatchBytes:        cfg.Batch.MaxBytes,
		FlushInterval:        time.Duration(cfg.Batch.FlushIntervalMs) * time.Millisecond,
		OfferTimeout:         time.Duration(cfg.Queue.OfferTimeoutMs) * time.Millisecond,
		DropWhenQueueFull:    cfg.Queue.DropWhenQueueFull,
		Gzip:                 cfg.Batch.Gzip,
		ContentType:          cfg.Batch.ContentType,
		MaxRetries:           cfg.Retry.MaxRetries,
		InitialBackoff:       time.Duration(cfg.Retry.InitialBackoffMs) * time.Millisecond,
		BackoffMultiplier:    cfg.Retry.BackoffMultiplier,
		MaxUploadsPerSecond:  cfg.Retry.MaxUploadsPerSecond,
		InstallSignalHandler: false,
	}
}
