package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/existflow/taskboard/internal/cli"
	"github.com/existflow/taskboard/internal/logger"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := logger.Init(logger.Config{
		Level:   logger.ParseLevel(os.Getenv("LOG_LEVEL")),
		Console: true,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Taskboard stub starting on :%s", port)
	if err := cli.ServeStub(ctx, ":"+port, os.Getenv("SEED_ACCOUNT"), true); err != nil {
		log.Fatalf("Stub failed: %v", err)
	}
}
