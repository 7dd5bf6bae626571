// Package logutils builds the zerolog logger shared by the server and CLI.
package logutils

import (
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// New returns a logger writing to w (stderr when nil).
//
// The level parameter can be one of: debug, info, warn, error, fatal.
// The format parameter is "json" or "console".
func New(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, errors.Wrapf(err, "parse log level %q", level)
	}
	if w == nil {
		w = os.Stderr
	}

	switch format {
	case "", "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Logger{}, errors.Newf("unknown log format %q", format)
	}

	return zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(lvl), nil
}
