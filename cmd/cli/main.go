package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/dishcraft/internal/cli"
	"github.com/socialchef/dishcraft/internal/config"
	"github.com/socialchef/dishcraft/internal/logger"
	"github.com/socialchef/dishcraft/internal/services/chef"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	// Keep stdout for the conversation.
	slog.SetDefault(logger.NewWithOutput(cfg.Env, os.Stderr, slog.LevelWarn))

	// CLI sessions live only for this process.
	cfg.RedisURL = ""
	svc, closeStore, err := chef.NewFromConfig(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
		return 2
	}
	defer closeStore()

	shell := cli.NewShell(svc, os.Stdin, os.Stdout,
		cli.WithSpinner(cli.NewSpinner(os.Stdout, " Thinking...")))

	if err := shell.Run(ctx); err != nil {
		if errors.Is(err, cli.ErrAborted) {
			return 130
		}
		return 1
	}
	return 0
}
