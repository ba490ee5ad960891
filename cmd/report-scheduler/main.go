package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"docmatch/internal/config"
	"docmatch/internal/learning"
	"docmatch/internal/reporter"
	"docmatch/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	kv, err := storage.Open(ctx, cfg)
	must(err)
	defer kv.Close()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	engine := learning.NewEngine(ctx, cfg, kv, logger)

	svc, err := reporter.NewService(engine, cfg, logger)
	must(err)
	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
