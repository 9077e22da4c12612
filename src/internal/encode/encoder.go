// FILE: src/internal/encode/encoder.go
package encode

import (
	"bytes"

	"logwisp/src/internal/core"
)

// ContentType is the media type of every payload this package produces.
const ContentType = "application/x-ndjson"

// Batch concatenates a batch's records into a single NDJSON buffer:
// record || '\n' for each record, in insertion order. It is total: it
// never fails on the UTF-8 byte slices the contract requires.
func Batch(b *core.Batch) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, b.Bytes()))
	for _, r := range b.Records() {
		buf.Write(r)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
