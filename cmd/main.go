package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to parse config.toml, using defaults", "error", err)
		}
	}
	config.ApplyEnv()

	if config.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	catalog := services.NewYouTubeService(config.Proxy.URL, config.Proxy.AuthFile, config.Proxy.RequestsPerSecond, nil)
	api := services.NewAPIService(config.Proxy.URL, config.Proxy.AuthFile, nil)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		API:     api,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "ytshift",
		Usage:    "Reorder, migrate, and manage YouTube Music playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err := app.Run(context.Background(), os.Args)
	runner.Close()
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
