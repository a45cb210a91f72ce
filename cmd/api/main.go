package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kanbanBoard/internal/app"
	"kanbanBoard/internal/config"
	"kanbanBoard/internal/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("KANBAN_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "конфигурация:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "инициализация:", err)
		application.Shutdown()
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Server stopped with error", err)
		application.Shutdown()
		os.Exit(1)
	}

	logger.Info("Server stopped")
	application.Shutdown()
}
