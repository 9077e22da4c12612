// FILE: src/internal/objectkey/builder.go
package objectkey

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Builder produces destination object keys of the form
// {prefix}{appName}/{yyyy-MM-dd}/{uuid}.jsonl[.gz], unique per batch
// with overwhelming probability. Callers MUST NOT rely on any ordering
// implied by the keys it returns.
type Builder struct {
	Prefix  string
	AppName string
}

// New returns a Builder for the given prefix and app name.
func New(prefix, appName string) Builder {
	return Builder{Prefix: prefix, AppName: appName}
}

// Build computes the date component at call time (UTC) and combines it
// with a fresh random UUIDv4. Set gzip to true to append the .gz suffix.
func (b Builder) Build(gzip bool) string {
	date := time.Now().UTC().Format("2006-01-02")
	ext := ".jsonl"
	if gzip {
		ext = ".jsonl.gz"
	}
	return fmt.Sprintf("%s%s/%s/%s%s", b.Prefix, b.AppName, date, uuid.New().String(), ext)
}
