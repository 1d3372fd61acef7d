package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mcphub/internal/config"
	"mcphub/internal/convert"
	"mcphub/internal/dispatch"
	"mcphub/internal/handlers"
	"mcphub/internal/lifecycle"
	"mcphub/internal/logger"
	"mcphub/internal/registry"
	"mcphub/internal/router"
)

func main() {
	cfg := config.New()

	logger.Init(cfg.LogLevel)
	logger.Info("Starting MCP Hub")

	reg := registry.New()
	manager := lifecycle.NewManager(cfg.StopTimeout())
	converter := convert.NewConverter(cfg.UpstreamTimeout())

	fetcher := &http.Client{Timeout: cfg.UpstreamTimeout()}
	specHandler := handlers.NewSpecHandler(reg, manager, converter, fetcher)
	healthHandler := handlers.NewHealthHandler(reg)

	dispatcher := dispatch.New(cfg.MountPrefix, reg, manager)

	r := router.Setup(specHandler, healthHandler, dispatcher, cfg.MountPrefix)

	// Stop all running targets before exiting
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("Received signal %s, shutting down", sig)
		manager.StopAll()
		os.Exit(0)
	}()

	logger.WithFields(map[string]interface{}{
		"port":         cfg.Port,
		"mount_prefix": cfg.MountPrefix,
	}).Info("MCP Hub listening")

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
