package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"chatroom-be/internal/bootstrap"
	"chatroom-be/internal/config"
	"chatroom-be/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services (restore, backup loop, session sweep)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := container.Start(ctx); err != nil {
		log.Fatalf("Unable to start background services: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	// 6. Graceful Shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, draining...")

	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Cancelling ctx told the backup loop to take its final snapshot;
	// Shutdown waits for it before flushing logs.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	container.Shutdown(shutdownCtx)

	log.Println("Shutdown completed")
}
