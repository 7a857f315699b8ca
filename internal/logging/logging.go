// Package logging configures the process-wide logger. The terminal belongs
// to the UI, so log output goes to a trace file or nowhere.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// TraceFileName is created in the working directory when tracing is on.
const TraceFileName = "ezgit.log"

// Options selects where and how much is logged.
type Options struct {
	// Trace enables writing to Dir/TraceFileName.
	Trace bool
	// Dir is the directory of the trace file, the working directory when
	// empty.
	Dir string
	// Level is one of debug, info, warn, error, fatal.
	Level string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the logger described by opts and installs it as the default.
// The returned closer releases the trace file.
func Setup(opts Options) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		level = log.ErrorLevel
	}

	var (
		out    io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)
	if opts.Trace {
		dir := opts.Dir
		if dir == "" {
			if dir, err = os.Getwd(); err != nil {
				return nil, nil, err
			}
		}
		f, err := os.OpenFile(filepath.Join(dir, TraceFileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out, closer = f, f
		if opts.Level == "" {
			level = log.DebugLevel
		}
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.StampMicro,
		Level:           level,
		Formatter:       log.LogfmtFormatter,
	})
	log.SetDefault(logger)
	return logger, closer, nil
}
