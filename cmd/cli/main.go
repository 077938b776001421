package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/osobist/wikisync/internal/client/cli"
	"github.com/osobist/wikisync/internal/client/config"
	"github.com/osobist/wikisync/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
