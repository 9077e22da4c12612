// FILE: src/internal/upload/uploader.go
package upload

import "context"

// Uploader is the sole interface the aggregator depends on for
// object-storage I/O. Implementations MUST be safe for sequential
// invocation by a single caller; the aggregator makes no concurrent
// calls against them.
type Uploader interface {
	// Upload PUTs content at objectKey with the given Content-Type and,
	// when non-empty, Content-Encoding header. Errors propagate to the
	// RetryController.
	Upload(ctx context.Context, objectKey string, content []byte, contentType, contentEncoding string) error

	// Close releases any held connections. Called once during sender
	// shutdown, after the aggregator has finished draining.
	Close() error
}
