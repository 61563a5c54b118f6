package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// setupLogging routes slog output to stderr, and additionally to the log
// file when one is configured. The file stays open for the process
// lifetime.
func setupLogging(logFile string) {
	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v\n", logFile, err)
		} else {
			w = io.MultiWriter(os.Stderr, f)
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}
