package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu           sync.RWMutex
	output       io.Writer
	consoleOut   bool
	defaultLevel = zerolog.InfoLevel
)

// Options configures the loggers returned by New after Configure is called.
type Options struct {
	Level string
	// Format is "json" or "console".
	Format string
	// File switches output to a rotating file instead of stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Configure sets the process-wide level and output. The returned closer
// releases the log file, if any.
func Configure(opts Options) (io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		lv, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = lv
	}
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		out, closer = lj, lj
	}
	mu.Lock()
	defaultLevel = level
	output = out
	consoleOut = strings.EqualFold(opts.Format, "console")
	mu.Unlock()
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
