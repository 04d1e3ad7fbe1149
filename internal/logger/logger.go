package logger

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger configures the process-wide slog default. Warnings and above are
// always emitted; verbose raises the level to info and debug to debug. When
// filepath is set, log output is duplicated into that file.
func InitLogger(filepath string, verbose bool, debug bool) (*slog.LevelVar, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}

	if debug {
		level = slog.LevelDebug
	}

	var writer io.Writer = os.Stderr

	if filepath != "" {
		f, err := os.OpenFile(filepath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			return nil, err
		}

		writer = io.MultiWriter(writer, f)
	}

	var leveler slog.LevelVar
	leveler.Set(level)

	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: &leveler,
		// Add source information, if debug level is enabled.
		AddSource: debug,
	}))

	slog.SetDefault(logger)

	return &leveler, nil
}

// Err is a helper function to ensure errors are always logged with the key
// "err". Additionally this becomes the single point in code, where we could
// tweak how errors are logged, e.g. to handle application specific error types
// or to add stack trace information in debug mode.
func Err(err error) slog.Attr {
	return slog.Any("err", err)
}
