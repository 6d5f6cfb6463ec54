/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the HR eligibility service. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment / .env
  2. Initialize SQLite store
  3. Build the eligibility engine over the store
  4. Configure HTTP router
  5. Start server with graceful shutdown

ENVIRONMENT:
  PORT             HTTP server port (default: 8080)
  DB_PATH          SQLite database path (default: hr.db, ":memory:" works)
  FAIL_OPEN_READS  Legacy fail-open oracle reads (default: false)
  LOG_LEVEL        logrus level (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/austral/eligibility-engine/api"
	"github.com/austral/eligibility-engine/config"
	"github.com/austral/eligibility-engine/engine"
	"github.com/austral/eligibility-engine/store/sqlite"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	failMode := engine.FailClosed
	if cfg.FailOpenReads {
		failMode = engine.FailOpen
		log.Warn("fail-open oracle reads enabled; repository failures will not block operations")
	}

	eng := engine.New(store,
		engine.WithLogger(log),
		engine.WithFailMode(failMode),
	)

	handler := api.NewHandler(store, eng, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("eligibility service listening on :%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Info("server stopped")
}
