// trends-service
//
// Runs the skill trend analytics batch on a cron interval and serves the
// read-only query API:
//   - GET /api/skills/trending — trend records, filterable and sortable
//   - GET /api/market/summary  — daily market rollup (Redis-cached)
//   - GET /api/stats           — dataset counters
//
// After each successful batch: prunes postings past the retention window and
// publishes EVENT_TRENDS_REFRESHED to Redis.
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

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/api"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/config"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/db"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/scheduler"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/store"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/trends"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[trends-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Schema ──────────────────────────────────────────────────────────────
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("[trends-service] Migrate: %v", err)
	}

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[trends-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[trends-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[trends-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[trends-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[trends-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[trends-service] Redis connected ✓")

	// ── Wiring ───────────────────────────────────────────────────────────────
	postings := store.NewPostingStore(pool)
	trendStore := store.NewTrendStore(pool)
	market := store.NewMarketStore(pool)

	calc := trends.NewCalculator(trends.DefaultConfig(), postings, trendStore, market, rdb)

	// ── Analytics cron ───────────────────────────────────────────────────────
	sched := scheduler.New("analytics", cfg.AnalyticsIntervalHours, func(ctx context.Context) {
		if _, err := calc.Run(ctx); err != nil {
			log.Printf("[trends-service] Analytics run failed: %v", err)
			return
		}
		cutoff := time.Now().UTC().AddDate(0, 0, -cfg.RetentionDays)
		deleted, err := postings.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			log.Printf("[trends-service] Retention cleanup failed: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("[trends-service] Retention cleanup removed %d posting(s)", deleted)
		}
	})
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[trends-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	h := api.NewHandler(postings, trendStore, market, rdb)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.TrendsPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[trends-service] v%s listening on :%s", version, cfg.TrendsPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[trends-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[trends-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[trends-service] Shutdown error: %v", err)
	}
	log.Println("[trends-service] Stopped.")
}
