package ingest

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/skills"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/store"
)

// EventPostingsIngested is published to Redis after every ingest cycle.
const EventPostingsIngested = "EVENT_POSTINGS_INGESTED"

// CycleStats counts the outcomes of one ingest cycle.
type CycleStats struct {
	RunID      string
	Found      int
	Stored     int
	Duplicates int
	Invalid    int
	Errors     int
}

// Worker runs the full ingest cycle: for each configured (search term ×
// location) pair it fetches listings, validates them, tags skills, and
// dedup-inserts into the postings table.
type Worker struct {
	postings  *store.PostingStore
	extractor *skills.Extractor
	fetcher   *Fetcher
	rdb       *redis.Client
	terms     []string
	locations []string
}

// NewWorker constructs a Worker.
func NewWorker(postings *store.PostingStore, extractor *skills.Extractor, fetcher *Fetcher, rdb *redis.Client, terms, locations []string) *Worker {
	return &Worker{
		postings:  postings,
		extractor: extractor,
		fetcher:   fetcher,
		rdb:       rdb,
		terms:     terms,
		locations: locations,
	}
}

// Run executes one ingest cycle across every (term × location) pair.
// A fetch failure for one pair is logged and the cycle continues.
func (w *Worker) Run(ctx context.Context) (*CycleStats, error) {
	stats := &CycleStats{RunID: uuid.NewString()}

	log.Printf("[worker] Starting ingest run %s: terms=%v locations=%v",
		stats.RunID, w.terms, w.locations)

	for _, term := range w.terms {
		for _, location := range w.locations {
			if err := w.fetchAndStore(ctx, term, location, stats); err != nil {
				log.Printf("[worker] Error ingesting (%q, %q): %v — continuing", term, location, err)
				stats.Errors++
			}
		}
	}

	log.Printf("[worker] Run %s done — found=%d stored=%d duplicates=%d invalid=%d errors=%d",
		stats.RunID, stats.Found, stats.Stored, stats.Duplicates, stats.Invalid, stats.Errors)

	w.publishIngested(ctx, stats)
	return stats, nil
}

func (w *Worker) fetchAndStore(ctx context.Context, term, location string, stats *CycleStats) error {
	results, err := w.fetcher.Fetch(ctx, term, location)
	if err != nil {
		return err
	}
	stats.Found += len(results)

	for _, r := range results {
		p := w.buildPosting(r, term, location)

		if problems := ValidatePosting(p); len(problems) > 0 {
			stats.Invalid++
			log.Printf("[worker] Skipping invalid posting %q at %q: %v", p.Title, p.Employer, problems)
			continue
		}

		inserted, err := w.postings.Insert(ctx, p)
		if err != nil {
			stats.Errors++
			log.Printf("[worker] DB insert error: %v", err)
			continue
		}
		if inserted {
			stats.Stored++
		} else {
			stats.Duplicates++
		}
	}
	return nil
}

// buildPosting converts a raw API listing into a skill-tagged Posting.
func (w *Worker) buildPosting(r searchResult, term, location string) *model.Posting {
	loc := r.Location
	if loc == "" {
		loc = "Unknown"
	}

	p := &model.Posting{
		Hash:           PostingHash(r.Company, r.Title, loc),
		Title:          r.Title,
		Employer:       r.Company,
		Location:       loc,
		Description:    r.Description,
		Requirements:   r.Requirements,
		SourceURL:      r.URL,
		SourceSite:     r.Site,
		SearchTerm:     term,
		SearchLocation: location,
		Salary: model.SalaryRange{
			Min:      r.SalaryMin,
			Max:      r.SalaryMax,
			Currency: r.Currency,
		},
		PostedDate: r.PostedDate,
		ScrapedAt:  time.Now().UTC(),
	}
	p.Skills = w.extractor.Extract(p.Title, p.Description, p.Requirements)
	return p
}

// publishIngested notifies downstream consumers that new postings may have
// landed. Non-fatal.
func (w *Worker) publishIngested(ctx context.Context, stats *CycleStats) {
	if w.rdb == nil {
		return
	}
	event, _ := json.Marshal(map[string]any{
		"type":       EventPostingsIngested,
		"runId":      stats.RunID,
		"stored":     stats.Stored,
		"duplicates": stats.Duplicates,
		"invalid":    stats.Invalid,
		"at":         time.Now().UTC().Format(time.RFC3339),
	})
	if err := w.rdb.Publish(ctx, EventPostingsIngested, event).Err(); err != nil {
		log.Printf("[worker] publish %s failed: %v", EventPostingsIngested, err)
	}
}
