package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// EventTrendsRefreshed is published to Redis after every successful run.
const EventTrendsRefreshed = "EVENT_TRENDS_REFRESHED"

// SummaryCacheKey holds the latest MarketSummary JSON for fast API reads.
const SummaryCacheKey = "market:summary:latest"

// summaryCacheTTL bounds staleness if the analytics run stops firing.
const summaryCacheTTL = 24 * time.Hour

// PostingReader is the slice of the posting store the engine reads from.
type PostingReader interface {
	// TaggedSince returns skill-tagged postings whose effective date is on or
	// after since. One bulk read per window; a failure aborts the whole run.
	TaggedSince(ctx context.Context, since time.Time) ([]*model.Posting, error)
	// ScrapedSince returns postings ingested on or after since.
	ScrapedSince(ctx context.Context, since time.Time) ([]*model.Posting, error)
	CountAll(ctx context.Context) (int, error)
}

// TrendWriter persists trend records and reports how many exist.
type TrendWriter interface {
	Upsert(ctx context.Context, trend *model.SkillTrend) error
	Count(ctx context.Context) (int, error)
}

// MarketWriter persists the daily rollup.
type MarketWriter interface {
	Upsert(ctx context.Context, summary *model.MarketSummary) error
}

// RunStats summarises one analytics batch.
type RunStats struct {
	RunID          string
	SkillKeys      int
	SkillsUpdated  int
	WriteFailures  int
	SummaryWritten bool
	Duration       time.Duration
}

// Calculator runs the full analytics batch: window aggregation, per-key
// growth calculation and trend upsert, then the daily market rollup.
type Calculator struct {
	cfg      Config
	postings PostingReader
	trends   TrendWriter
	market   MarketWriter
	rdb      *redis.Client // optional; event publish and summary cache skip when nil
}

// NewCalculator wires the engine to its stores. rdb may be nil.
func NewCalculator(cfg Config, postings PostingReader, trends TrendWriter, market MarketWriter, rdb *redis.Client) *Calculator {
	return &Calculator{cfg: cfg, postings: postings, trends: trends, market: market, rdb: rdb}
}

// Run executes one batch as of time.Now. See RunAt.
func (c *Calculator) Run(ctx context.Context) (*RunStats, error) {
	return c.RunAt(ctx, time.Now().UTC())
}

// RunAt executes one analytics batch with an explicit reference time.
//
// A window read failure aborts the run: partial-window data would silently
// corrupt every growth rate downstream. A write failure for one SkillKey is
// logged and counted, and the run continues — re-running is idempotent, so
// keys skipped by a failure simply retain their previous record until the
// next run.
func (c *Calculator) RunAt(ctx context.Context, now time.Time) (*RunStats, error) {
	started := time.Now()
	stats := &RunStats{RunID: uuid.NewString()}

	windows := c.cfg.sortedWindows()
	if len(windows) == 0 {
		return nil, fmt.Errorf("no aggregation windows configured")
	}

	slog.Info("analytics run starting", "runId", stats.RunID, "windows", windows)

	// ── Period aggregation: one bulk read per window ────────────────────────
	byWindow := make(map[int]WindowBuckets, len(windows))
	for _, w := range windows {
		postings, err := c.postings.TaggedSince(ctx, now.AddDate(0, 0, -w))
		if err != nil {
			return nil, fmt.Errorf("fetch %dd window: %w", w, err)
		}
		byWindow[w] = AggregateWindow(postings, w, now)
	}

	// ── Per-key growth calculation and upsert ───────────────────────────────
	keys := KeyUnion(byWindow)
	stats.SkillKeys = len(keys)
	for _, key := range keys {
		trend := BuildTrend(c.cfg, key, byWindow, now)
		if err := c.trends.Upsert(ctx, trend); err != nil {
			stats.WriteFailures++
			slog.Warn("trend upsert failed", "skill", key.Skill, "category", key.Category, "err", err)
			continue
		}
		stats.SkillsUpdated++
	}

	// ── Daily market rollup ─────────────────────────────────────────────────
	if err := c.writeSummary(ctx, now); err != nil {
		slog.Warn("market summary failed", "runId", stats.RunID, "err", err)
	} else {
		stats.SummaryWritten = true
	}

	c.publishRefreshed(ctx, stats)

	stats.Duration = time.Since(started)
	slog.Info("analytics run complete",
		"runId", stats.RunID,
		"skillKeys", stats.SkillKeys,
		"updated", stats.SkillsUpdated,
		"writeFailures", stats.WriteFailures,
		"duration", stats.Duration)
	return stats, nil
}

func (c *Calculator) writeSummary(ctx context.Context, now time.Time) error {
	weekPostings, err := c.postings.ScrapedSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return fmt.Errorf("fetch trailing week: %w", err)
	}
	total, err := c.postings.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("count postings: %w", err)
	}
	uniqueSkills, err := c.trends.Count(ctx)
	if err != nil {
		return fmt.Errorf("count trends: %w", err)
	}

	summary := BuildMarketSummary(weekPostings, total, uniqueSkills, now)
	if err := c.market.Upsert(ctx, summary); err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}

	// Refresh the API-side cache (non-fatal).
	if c.rdb != nil {
		payload, err := json.Marshal(summary)
		if err == nil {
			err = c.rdb.Set(ctx, SummaryCacheKey, payload, summaryCacheTTL).Err()
		}
		if err != nil {
			slog.Warn("summary cache refresh failed", "err", err)
		}
	}
	return nil
}

// publishRefreshed notifies downstream consumers that trend data changed.
// Non-fatal, mirroring every other event publish in the system.
func (c *Calculator) publishRefreshed(ctx context.Context, stats *RunStats) {
	if c.rdb == nil {
		return
	}
	event, _ := json.Marshal(map[string]any{
		"type":          EventTrendsRefreshed,
		"runId":         stats.RunID,
		"skillsUpdated": stats.SkillsUpdated,
		"writeFailures": stats.WriteFailures,
		"at":            time.Now().UTC().Format(time.RFC3339),
	})
	if err := c.rdb.Publish(ctx, EventTrendsRefreshed, event).Err(); err != nil {
		slog.Warn("publish EVENT_TRENDS_REFRESHED failed", "err", err)
	}
}
