// ingest-service
//
// Periodically fetches job postings from the external search API for every
// configured (search term × location) pair, validates them, tags skills with
// the dictionary extractor, and dedup-inserts into Postgres. Publishes
// EVENT_POSTINGS_INGESTED after each cycle.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/config"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/db"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/ingest"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/scheduler"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/skills"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ingest-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Schema ──────────────────────────────────────────────────────────────
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("[ingest-service] Migrate: %v", err)
	}

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[ingest-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[ingest-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[ingest-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[ingest-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[ingest-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[ingest-service] Redis connected ✓")

	// ── Wiring ───────────────────────────────────────────────────────────────
	postings := store.NewPostingStore(pool)
	extractor := skills.NewExtractor(skills.DefaultConfidenceThreshold)
	fetcher := ingest.NewFetcher(cfg.JobsAPIURL, cfg.JobsAPIKey)
	worker := ingest.NewWorker(postings, extractor, fetcher, rdb, cfg.SearchTerms, cfg.SearchLocations)

	// ── Ingest cron ──────────────────────────────────────────────────────────
	sched := scheduler.New("ingest", cfg.ScrapeIntervalHours, func(ctx context.Context) {
		if _, err := worker.Run(ctx); err != nil {
			log.Printf("[ingest-service] Ingest run failed: %v", err)
		}
	})
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[ingest-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server (health only) ────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.IngestPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[ingest-service] v%s listening on :%s", version, cfg.IngestPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[ingest-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[ingest-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ingest-service] Shutdown error: %v", err)
	}
	log.Println("[ingest-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "ingest-service",
		"version": version,
	})
}
