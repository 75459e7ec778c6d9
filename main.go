package main

import (
	"catalogo_server/api"
	"catalogo_server/config"
	"catalogo_server/database"
	"catalogo_server/services"
	"catalogo_server/structs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sm := services.NewServiceManager(logger, cfg, database.GetInstance())
	go sm.DraftRegistry.Run(ctx)

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal, draining connections")
	shutdown(server, sm)
}

// shutdown stops accepting requests, then closes the cache and database
func shutdown(server *http.Server, sm *services.ServiceManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", gecho.Field("error", err))
	}
	if err := sm.CacheService.Close(); err != nil {
		logger.Error("Failed to close cache", gecho.Field("error", err))
	}
	if err := database.CloseInstance(); err != nil {
		logger.Error("Failed to close database", gecho.Field("error", err))
	}
	logger.Info("Shutdown complete")
}
