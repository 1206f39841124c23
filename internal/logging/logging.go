// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns a JSON logger at the given level writing to file, or to stdout
// when file is empty. The returned closer releases the file.
func New(level, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("parse log level: %w", err)
	}

	var w io.Writer = os.Stdout
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }
		w = f
	}

	return NewWithWriter(w, lvl), closer, nil
}

// NewWithWriter returns a timestamped JSON logger on w.
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}
