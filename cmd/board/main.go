package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kanbanBoard/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.New().Execute(ctx, os.Args[1:]); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Ошибка:", err)
		}
		stop()
		os.Exit(1)
	}
}
