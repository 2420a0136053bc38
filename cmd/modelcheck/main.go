package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"modelcheck/internal/cli"
)

func main() {
	// Ctrl+C / SIGTERM cancel the run or shut the server down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
