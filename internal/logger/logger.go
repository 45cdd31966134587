// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log records go.
type Options struct {
	Level slog.Level

	// File, when set, receives JSON records with size-based rotation.
	File string

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Setup returns a logger that writes human-readable text to stdout and JSON
// to stderr, plus a rotated JSON file when opts.File is set. The returned
// closer releases the file and is safe to call when no file is configured.
func Setup(opts Options) (*slog.Logger, io.Closer) {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	handlers := []slog.Handler{
		slog.NewTextHandler(stdout, handlerOpts),
		slog.NewJSONHandler(stderr, handlerOpts),
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // MB
			MaxBackups: 10,
			MaxAge:     30, // days
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(rotator, handlerOpts))
		closer = rotator
	}

	return slog.New(slog.NewMultiHandler(handlers...)), closer
}

// SetupDefault builds a logger with Setup and installs it as the slog default.
func SetupDefault(opts Options) io.Closer {
	l, closer := Setup(opts)
	slog.SetDefault(l)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
