package logger

import (
	"log/slog"
	"os"
)

// InitLogger installs the global structured logger: JSON handler on stdout.
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
}
