/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the banking demo server: configuration, snapshot
  store, ledger core, HTTP router, graceful shutdown.

CONFIGURATION:
  Read from a .env file when present, overridable by environment variables:
    PORT        HTTP server port            (default 8080)
    DB_PATH     SQLite snapshot database    (default bank.db, ":memory:" ok)
    JWT_SECRET  HMAC secret for login tokens

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for active
  requests, close the database, exit.

SEE ALSO:
  - api/server.go: router configuration
  - store/sqlite: snapshot store
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/meridianbank/bankcore/api"
	"github.com/meridianbank/bankcore/ledger"
	"github.com/meridianbank/bankcore/store/sqlite"
)

func main() {
	// Configuration: .env file plus environment overrides.
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("DB_PATH", "bank.db")
	viper.SetDefault("JWT_SECRET", "dev-only-secret")
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Initialize snapshot store
	store, err := sqlite.New(viper.GetString("DB_PATH"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize the ledger core: loads the four collections once.
	bank, err := ledger.NewBank(context.Background(), store)
	if err != nil {
		log.Fatalf("Failed to load bank state: %v", err)
	}

	// Create router
	handler := api.NewHandler(bank, []byte(viper.GetString("JWT_SECRET")))
	router := api.NewRouter(handler)

	port := viper.GetInt("PORT")
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
