package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cronpulse-dev/cronpulse/db"
	"github.com/cronpulse-dev/cronpulse/internal/alerts"
	"github.com/cronpulse-dev/cronpulse/internal/auth"
	"github.com/cronpulse-dev/cronpulse/internal/checker"
	"github.com/cronpulse-dev/cronpulse/internal/heartbeat"
	"github.com/cronpulse-dev/cronpulse/internal/metrics"
	"github.com/cronpulse-dev/cronpulse/internal/router"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	metrics.Init()

	dispatcher := alerts.NewDispatcher(alerts.NewEmailNotifierFromEnv(), alerts.NewWebhookNotifier())
	ingestor := heartbeat.NewIngestor(db.DB, dispatcher)

	interval := checker.DefaultInterval

	if intervalStr := os.Getenv("CHECK_INTERVAL"); intervalStr != "" {
		seconds, err := strconv.Atoi(intervalStr)

		if err != nil || seconds <= 0 {
			log.Fatalf("Invalid CHECK_INTERVAL: %q", intervalStr)
		}

		interval = time.Duration(seconds) * time.Second
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go checker.NewChecker(db.DB, dispatcher, interval).Start(ctx)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router.NewRouter(ingestor),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
