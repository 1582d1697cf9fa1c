package main

import (
	"log/slog"
	"os"

	"github.com/adampresley/albumbrowser/cmd/website/internal/configuration"
	"github.com/adampresley/albumbrowser/pkg/logging"
)

func setupLogger(config *configuration.Config, version string) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logging.ParseLevel(config.LogLevel),
	}).WithAttrs([]slog.Attr{
		slog.String("version", version),
	})

	slog.SetDefault(slog.New(h))
}
