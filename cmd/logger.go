package cmd

import (
	"io"
	"log/slog"

	"github.com/inovacc/orgclone/internal/config"
)

// setupLogger creates a configured slog.Logger: JSON on stdout when
// jsonOutput is set, text on stderr otherwise.
func setupLogger(levelStr string, jsonOutput bool, stdout, stderr io.Writer) *slog.Logger {
	// validated with the rest of the settings
	level, _ := config.ParseLevel(levelStr)

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(stdout, opts)
	} else {
		handler = slog.NewTextHandler(stderr, opts)
	}

	return slog.New(handler)
}
