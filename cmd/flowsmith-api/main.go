package main

import (
	"context"
	"fmt"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/flowsmith/flowsmith/pkg/config"
	"github.com/flowsmith/flowsmith/pkg/log"
	"github.com/flowsmith/flowsmith/pkg/persistence"
	"github.com/flowsmith/flowsmith/pkg/persistence/file"
	"github.com/flowsmith/flowsmith/pkg/persistence/redis"
	"github.com/flowsmith/flowsmith/pkg/services"
)

func main() {
	logger := log.WithModule("api")

	cmd := &cli.Command{
		Name:                  "flowsmith-api",
		Usage:                 "Build workflow graphs from conversational intent",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "./flowsmith.yaml",
				Sources: cli.EnvVars("FLOWSMITH_CONFIG"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on (overrides config)",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error, overrides config)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg := config.LoadOrDefault(command.String("config"))

			if port := command.Int("port"); port > 0 {
				cfg.Port = port
			}

			if level := command.String("log-level"); level != "" {
				cfg.LogLevel = level
			}

			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			log.Setup(cfg.LogLevel)

			logger.InfoContext(ctx, "Initializing Flowsmith API",
				"port", cfg.Port, "storage", cfg.Storage.Type)

			store := newStore(cfg)
			sessions := services.NewManager(store, nil, logger)
			sessions.SetDefaultSaveDelay(time.Duration(cfg.SaveDebounceMS) * time.Millisecond)

			defer func() {
				if err := sessions.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close sessions", "error", err)
				}
			}()

			api := NewAPI(logger, sessions)

			err := api.Start(cfg.Port)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func newStore(cfg config.Config) persistence.Store {
	if cfg.Storage.Type == "redis" {
		return redis.NewStoreFromAddr(cfg.Storage.RedisAddr)
	}

	return file.NewStore(cfg.Storage.Path)
}
