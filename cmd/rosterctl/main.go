package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(defaultServiceFactory)
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("error:", err)
		stop()
		os.Exit(1)
	}
}
