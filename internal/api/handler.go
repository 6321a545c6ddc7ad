// Package api implements the HTTP query surface of the trends service.
//
// Routes:
//
//	GET /health                → service status
//	GET /api/skills/trending   → trend records, filterable and sortable
//	GET /api/market/summary    → most recent market rollup (Redis-cached)
//	GET /api/stats             → dataset counters
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/store"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/trends"
)

const defaultSummaryDays = 7

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	postings *store.PostingStore
	trends   *store.TrendStore
	market   *store.MarketStore
	rdb      *redis.Client
}

// NewHandler returns a configured Handler.
func NewHandler(postings *store.PostingStore, trendStore *store.TrendStore, market *store.MarketStore, rdb *redis.Client) *Handler {
	return &Handler{postings: postings, trends: trendStore, market: market, rdb: rdb}
}

// RegisterRoutes mounts all query routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/api/skills/trending", h.handleTrending)
	mux.HandleFunc("/api/market/summary", h.handleSummary)
	mux.HandleFunc("/api/stats", h.handleStats)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{"status": "ok"})
}

// handleTrending handles GET /api/skills/trending?category=&sort_by=&limit=
func (h *Handler) handleTrending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := store.TrendQuery{
		Category: r.URL.Query().Get("category"),
		SortBy:   r.URL.Query().Get("sort_by"),
	}
	if q.Category != "" {
		if _, err := model.ParseCategory(q.Category); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if q.SortBy != "" && !store.ValidSortKey(q.SortBy) {
		jsonError(w, fmt.Sprintf("unknown sort key %q", q.SortBy), http.StatusBadRequest)
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		q.Limit = n
	}

	records, err := h.trends.Trending(r.Context(), q)
	if err != nil {
		log.Printf("[api] trending query error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, records)
}

// handleSummary handles GET /api/market/summary?days=
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := defaultSummaryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			jsonError(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}

	// Cache serves only the default lookback; explicit ranges always hit
	// Postgres.
	if days == defaultSummaryDays && h.rdb != nil {
		if cached, err := h.rdb.Get(r.Context(), trends.SummaryCacheKey).Bytes(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	summary, err := h.market.LatestSince(r.Context(), since)
	if errors.Is(err, store.ErrNoSummary) {
		jsonError(w, "no market summary available yet", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[api] summary query error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, summary)
}

// handleStats handles GET /api/stats
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	total, err := h.postings.CountAll(ctx)
	if err != nil {
		log.Printf("[api] stats count error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	week, err := h.postings.CountScrapedSince(ctx, time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		log.Printf("[api] stats week count error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	uniqueSkills, err := h.trends.Count(ctx)
	if err != nil {
		log.Printf("[api] stats trend count error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	summaries, err := h.market.Count(ctx)
	if err != nil {
		log.Printf("[api] stats summary count error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]int{
		"totalPostings":  total,
		"postingsWeek":   week,
		"uniqueSkills":   uniqueSkills,
		"dailySummaries": summaries,
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
