// Package logging owns the process logger. Components that log take a
// *log.Logger and fall back to Default when given none.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once sync.Once
	std  *log.Logger
)

// Default returns the process logger, creating it on first use.
func Default() *log.Logger {
	once.Do(func() {
		std = New(os.Stderr, "hull")
	})
	return std
}

// New returns a logger writing to w in the process format.
func New(w io.Writer, prefix string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
	})
	l.SetLevel(log.InfoLevel)
	return l
}

// SetLevel sets the level of the process logger from its name
// ("debug", "info", "warn", "error").
func SetLevel(name string) error {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	Default().SetLevel(lvl)
	return nil
}

// SetOutput redirects the process logger.
func SetOutput(w io.Writer) {
	Default().SetOutput(w)
}
