package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// setupLog routes logging to the file named by ECTTS_LOGFILE, or discards
// it. The returned closer flushes the file at exit.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	path := os.Getenv("ECTTS_LOGFILE")
	if path == "" {
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
