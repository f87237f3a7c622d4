package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivplatonov/stackd/internal/config"
	"github.com/ivplatonov/stackd/internal/server"
)

func main() {
	// Parse flags
	configFile := flag.String("config", "", "Path to YAML config file")
	port := flag.String("port", "", "Server port (overrides config)")
	capacity := flag.Uint("capacity", 0, "Initial stack capacity (overrides config)")
	gated := flag.Bool("gated", false, "Gate the device on key presence")
	keyPath := flag.String("key", "", "Path watched for the presence key (implies -gated)")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags win over environment and file
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *capacity > 0 {
		cfg.Stack.Capacity = *capacity
	}
	if *gated {
		cfg.Presence.Gated = true
	}
	if *keyPath != "" {
		cfg.Presence.Gated = true
		cfg.Presence.KeyPath = *keyPath
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
