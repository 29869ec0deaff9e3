package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	app "github.com/rocketscienceinc/connectfour-backend/internal"
	"github.com/rocketscienceinc/connectfour-backend/internal/config"
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	cmd := &cli.Command{
		Name:  "connectfour-backend",
		Usage: "realtime connect four game server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the yaml config file",
				Value:   defaultConfigPath(),
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "overrides the log level from the config file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			conf := config.MustLoad(cmd.String("config"))
			if level := cmd.String("log-level"); level != "" {
				conf.LogLevel = level
			}

			logger := initLogger(conf)

			if err := app.RunApp(ctx, logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

func defaultConfigPath() string {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return filepath.Join(baseDir, "./config.yml")
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
