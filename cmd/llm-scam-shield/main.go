package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/mikey/llm-scam-shield/internal/di"
	"github.com/mikey/llm-scam-shield/internal/factory"
	"github.com/mikey/llm-scam-shield/internal/ports"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (searches default locations if empty)")
	flag.Parse()

	// Build the dependency injection container
	container, err := di.BuildContainer(*configFile)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// resources are the dependencies run needs to start and shut down
type resources struct {
	dig.In

	Logger      *zap.Logger
	Frontends   []ports.Frontend
	Generator   core.TextGenerator
	History     factory.HistoryStore
	AlertCloser io.Closer
}

// run is the main application function that gets all dependencies injected
func run(r resources) error {
	logger := r.Logger
	defer logger.Sync()

	// Start the frontends
	for _, fe := range r.Frontends {
		if err := fe.Start(); err != nil {
			logger.Error("Failed to start frontend", zap.Error(err))
			stopAll(logger, r)
			return err
		}
	}

	logger.Info("Scam shield started", zap.Int("frontends", len(r.Frontends)))

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	stopAll(logger, r)

	logger.Info("Shutdown complete")
	return nil
}

// stopAll stops frontends first, then releases the resources they were using
func stopAll(logger *zap.Logger, r resources) {
	for _, fe := range r.Frontends {
		if err := fe.Stop(); err != nil {
			logger.Error("Failed to stop frontend", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := r.Generator.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}

	if r.History != nil {
		r.History.Stop()
	}

	if r.AlertCloser != nil {
		if err := r.AlertCloser.Close(); err != nil {
			logger.Error("Failed to close alert connection", zap.Error(err))
		}
	}
}
