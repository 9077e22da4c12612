// FILE: src/internal/logadapter/core.go
package logadapter

import (
	"bytes"
	"context"

	"go.uber.org/zap/zapcore"
)

// Offerer is the subset of sender.Sender this package depends on, so
// logadapter does not import sender.
type Offerer interface {
	Offer(ctx context.Context, line []byte) error
}

// Core is a reference implementation of the "logging-framework adapter"
// this specification treats as an external collaborator (§1, §11.3).
// It satisfies zapcore.Core, encoding each entry to a single JSON line
// and forwarding it to a Sender, so an application can construct a
// zap.Logger that ships every line through the appender with no other
// integration code.
type Core struct {
	encoder zapcore.Encoder
	fields  []zapcore.Field
	level   zapcore.LevelEnabler
	target  Offerer
}

// NewCore builds a Core that ships records to target at or above
// minLevel, using zap's standard JSON encoding.
func NewCore(target Offerer, minLevel zapcore.LevelEnabler) *Core {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return &Core{
		encoder: zapcore.NewJSONEncoder(encCfg),
		level:   minLevel,
		target:  target,
	}
}

// Enabled implements zapcore.Core.
func (c *Core) Enabled(lvl zapcore.Level) bool {
	return c.level.Enabled(lvl)
}

// With implements zapcore.Core, returning a copy carrying the
// accumulated fields.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &clone
}

// Check implements zapcore.Core.
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write implements zapcore.Core: encode the entry to one JSON line and
// offer it to the target Sender. Offer never blocks the caller on
// storage I/O; it only blocks (or drops) per the sender's own admission
// policy.
func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.encoder.EncodeEntry(ent, append(c.fields, fields...))
	if err != nil {
		return err
	}
	defer buf.Free()

	line := bytes.TrimRight(buf.Bytes(), "\n")
	return c.target.Offer(context.Background(), line)
}

// Sync implements zapcore.Core. The appender has no local buffer for
// the adapter to flush; records are already queued for the aggregator.
func (c *Core) Sync() error {
	return nil
}
