// Package logging provides the types.Logger implementations used by cqlprobe.
//
// NopLogger is the default when no logger is configured. ZapLogger writes
// structured JSON through go.uber.org/zap; the cqlprobe command sends it to
// stderr so that stdout only carries the probe's progress lines.
package logging
