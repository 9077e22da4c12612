// FILE: src/internal/compress/gzip.go
package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// Gzip wraps data in a single gzip member. Deterministic modulo the
// timestamp the gzip header carries; callers comparing compressed
// output in tests should decompress first.
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Gunzip reverses Gzip, used by tests to assert on decompressed payloads.
func Gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("gzip read: %w", err)
	}
	return buf.Bytes(), nil
}
