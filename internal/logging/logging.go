package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Level maps a -v count to a log level. With no -v flags the level named by
// fallback is used, warn when it does not parse.
func Level(verbosity int, fallback string) zerolog.Level {
	switch {
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	case verbosity > 2:
		return zerolog.TraceLevel
	}
	level, err := zerolog.ParseLevel(fallback)
	if err != nil || fallback == "" {
		return zerolog.WarnLevel
	}
	return level
}

// New returns a console logger writing to w at the given level. Colours are
// used only when w is a terminal.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}
	logger := zerolog.New(consoleWriter).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}
