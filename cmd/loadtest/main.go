package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/tastesearch/internal/loadtest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := loadtest.Execute(ctx)
	stop()
	os.Exit(code)
}
