// Package logging hands out per-component logrus loggers that share one sink.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Options controls the shared sink. The zero value logs at info level to
// stderr when stderr is not a terminal and discards otherwise.
type Options struct {
	Level  string // "debug", "info", "warn", "error"
	Dir    string // directory for stash.log; empty disables the file sink
	JSON   bool
	Stderr string // "auto", "always", "never"
}

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	base      *logrus.Logger
	logFile   *os.File
)

// Configure (re)initializes the shared sink. Loggers handed out earlier keep
// working and pick up the new output and level.
func Configure(opts Options) error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	logger := root()

	levelStr := "info"
	if env := os.Getenv("STASH_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if opts.Level != "" {
		levelStr = opts.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	var writers []io.Writer

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0700); err != nil {
			return err
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, "stash.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		logFile = f
		writers = append(writers, f)
	}

	if shouldLogToStderr(opts.Stderr) {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		// Interactive terminal without a file sink: the TUI owns the screen.
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
	return nil
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if entry, ok := loggers[component]; ok {
		return entry
	}
	entry := root().WithField("component", component)
	loggers[component] = entry
	return entry
}

// SetOutput redirects the shared sink, mainly for tests.
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	root().SetOutput(w)
}

// Close releases the file sink.
func Close() error {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	if logFile == nil {
		return nil
	}
	root().SetOutput(io.Discard)
	err := logFile.Close()
	logFile = nil
	return err
}

// root must be called with loggersMu held.
func root() *logrus.Logger {
	if base == nil {
		base = logrus.New()
		if !shouldLogToStderr("auto") {
			base.SetOutput(io.Discard)
		}
	}
	return base
}

func shouldLogToStderr(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// STASH_DEBUG=1 forces stderr even under a terminal.
		isDebug := os.Getenv("STASH_DEBUG") == "1"
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || !isInteractive
	}
}
