// FILE: src/cmd/logship/flags.go
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	configFile  = flag.String("config", "", "Config file path")
	showVersion = flag.Bool("version", false, "Show version information")

	logOutput = flag.String("log-output", "", "Log output: stdout, stderr, file, none (overrides config)")
	logLevel  = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
)

func init() {
	flag.Usage = customUsage
}

func customUsage() {
	fmt.Fprintf(os.Stderr, "logship - async batching log shipper\n\n")
	fmt.Fprintf(os.Stderr, "Usage: %s [options] < input.log\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Reads newline-delimited log records from stdin, batches them, and\n")
	fmt.Fprintf(os.Stderr, "uploads them to an S3-compatible object store.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -config string\n\tConfig file path\n")
	fmt.Fprintf(os.Stderr, "  -version\n\tShow version information\n")
	fmt.Fprintf(os.Stderr, "  -log-output string\n\tLog output: stdout, stderr, file, none (overrides config)\n")
	fmt.Fprintf(os.Stderr, "  -log-level string\n\tLog level: debug, info, warn, error (overrides config)\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	fmt.Fprintf(os.Stderr, "  LOGSHIP_CONFIG_FILE   Config file path\n")
	fmt.Fprintf(os.Stderr, "  LOGSHIP_CONFIG_DIR    Config directory\n")
	fmt.Fprintf(os.Stderr, "  LOGSHIP_*             Any config field, e.g. LOGSHIP_BACKEND_BUCKET\n")
}

func parseFlags() error {
	flag.Parse()

	if *logOutput != "" {
		validOutputs := map[string]bool{"stdout": true, "stderr": true, "file": true, "none": true}
		if !validOutputs[*logOutput] {
			return fmt.Errorf("invalid log-output: %s", *logOutput)
		}
	}

	if *logLevel != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[*logLevel] {
			return fmt.Errorf("invalid log-level: %s", *logLevel)
		}
	}

	return nil
}
