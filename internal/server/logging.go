package server

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// NewLogger builds the process-wide structured logger. verbosity follows
// the CLI's repeated -d flag: 0 is Info, 1 is Debug, 2 or more is Trace.
func NewLogger(verbosity int) hclog.Logger {
	level := hclog.Info
	switch {
	case verbosity >= 2:
		level = hclog.Trace
	case verbosity == 1:
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "iron-mockside",
		Level:  level,
		Output: os.Stderr,
	})
}
