package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/yorudev/gw2-loot-tracker/internal/api"
	"github.com/yorudev/gw2-loot-tracker/internal/config"
	"github.com/yorudev/gw2-loot-tracker/internal/database"
	"github.com/yorudev/gw2-loot-tracker/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	if err := database.Initialize(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize services
	client := services.NewGW2Client()
	settings := services.NewSettings(&cfg.GW2)
	identity := services.NewIdentityService()
	history := services.NewHistoryService(database.GetDB())

	filter, err := services.NewTrackingFilter(database.GetDB())
	if err != nil {
		log.Fatalf("Failed to initialize tracking filter: %v", err)
	}

	poller := services.NewPoller(client, settings, identity)
	engine := services.NewSessionEngine(client, settings, identity, history, poller)

	// Start the background poll/reconcile loop. The engine consumes each
	// cycle and snapshot on the poller's worker goroutine.
	poller.Start(engine)

	// The currency catalog is public API data, no key needed.
	go engine.PrewarmCurrencies()

	if cfg.GW2.APIKey == "" {
		log.Println("No GW2 API key configured; polling idles until one is set via the API")
	}

	// Setup router
	router := api.SetupRouter(engine, poller, client, history, filter, identity, settings, cfg.Server.CORSOrigins)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop the poller and clear engine state before the process exits.
	// Shutdown joins the worker, so no snapshot lands after this returns.
	engine.Shutdown()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
