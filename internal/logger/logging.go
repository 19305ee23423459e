// Package logger builds charmbracelet/log loggers that write to stderr,
// leaving stdout to the msgpack-rpc stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options mirrors the [log] config section.
type Options struct {
	Level     log.Level
	Timestamp bool
	Caller    bool
}

var output io.Writer = os.Stderr

// Setup configures the global logger that package code reaches through the
// log functions, and returns it.
func Setup(opts Options) *log.Logger {
	l := NewWithConfig("", opts)
	log.SetDefault(l)
	return l
}

// New creates a prefixed logger that follows the global level.
func New(prefix string) *log.Logger {
	return NewWithConfig(prefix, Options{Level: log.GetLevel()})
}

// NewWithConfig creates a prefixed logger with custom options.
func NewWithConfig(prefix string, opts Options) *log.Logger {
	return log.NewWithOptions(output, log.Options{
		Prefix:          prefix,
		Level:           opts.Level,
		ReportCaller:    opts.Caller,
		ReportTimestamp: opts.Timestamp,
		Formatter:       log.TextFormatter,
	})
}
