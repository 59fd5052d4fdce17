package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/isdelr/todo-be/internal/cli"
	"github.com/isdelr/todo-be/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	level := os.Getenv("TODO_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger.Init(level, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx))
}

func run(ctx context.Context) int {
	app, err := cli.NewApp(ctx, cli.LoadConfig(), os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		return 1
	}
	return 0
}
