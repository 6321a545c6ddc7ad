package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// ErrNoSummary is returned when no market summary has been recorded yet.
var ErrNoSummary = fmt.Errorf("no market summary recorded")

// MarketStore persists the daily market rollup, one row per calendar day.
type MarketStore struct {
	pool *pgxpool.Pool
}

// NewMarketStore returns a configured MarketStore.
func NewMarketStore(pool *pgxpool.Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

// Upsert writes the summary for its calendar day, replacing any earlier run
// from the same day.
func (s *MarketStore) Upsert(ctx context.Context, m *model.MarketSummary) error {
	topSkills, err := json.Marshal(m.TopSkills)
	if err != nil {
		return fmt.Errorf("marshal top skills: %w", err)
	}
	topEmployers, err := json.Marshal(m.TopEmployers)
	if err != nil {
		return fmt.Errorf("marshal top employers: %w", err)
	}
	topLocations, err := json.Marshal(m.TopLocations)
	if err != nil {
		return fmt.Errorf("marshal top locations: %w", err)
	}
	categories, err := json.Marshal(m.SkillCategories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO market_summaries (summary_date, total_postings, new_postings_24h,
		                               postings_week, top_skills, top_employers,
		                               top_locations, skill_categories, unique_skills,
		                               generated_at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7::jsonb, $8::jsonb, $9, $10)
		 ON CONFLICT (summary_date) DO UPDATE SET
		   total_postings   = EXCLUDED.total_postings,
		   new_postings_24h = EXCLUDED.new_postings_24h,
		   postings_week    = EXCLUDED.postings_week,
		   top_skills       = EXCLUDED.top_skills,
		   top_employers    = EXCLUDED.top_employers,
		   top_locations    = EXCLUDED.top_locations,
		   skill_categories = EXCLUDED.skill_categories,
		   unique_skills    = EXCLUDED.unique_skills,
		   generated_at     = EXCLUDED.generated_at`,
		m.Date, m.TotalPostings, m.NewPostings24h,
		m.PostingsWeek, string(topSkills), string(topEmployers),
		string(topLocations), string(categories), m.UniqueSkills,
		m.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert market summary: %w", err)
	}
	return nil
}

// LatestSince returns the most recent summary dated on or after since, or
// ErrNoSummary when none qualifies.
func (s *MarketStore) LatestSince(ctx context.Context, since time.Time) (*model.MarketSummary, error) {
	var (
		m            model.MarketSummary
		topSkills    []byte
		topEmployers []byte
		topLocations []byte
		categories   []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT summary_date, total_postings, new_postings_24h, postings_week,
		        top_skills, top_employers, top_locations, skill_categories,
		        unique_skills, generated_at
		 FROM market_summaries
		 WHERE summary_date >= $1
		 ORDER BY summary_date DESC
		 LIMIT 1`,
		since,
	).Scan(
		&m.Date, &m.TotalPostings, &m.NewPostings24h, &m.PostingsWeek,
		&topSkills, &topEmployers, &topLocations, &categories,
		&m.UniqueSkills, &m.GeneratedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSummary
	}
	if err != nil {
		return nil, fmt.Errorf("latest summary: %w", err)
	}

	if err := json.Unmarshal(topSkills, &m.TopSkills); err != nil {
		return nil, fmt.Errorf("unmarshal top skills: %w", err)
	}
	if err := json.Unmarshal(topEmployers, &m.TopEmployers); err != nil {
		return nil, fmt.Errorf("unmarshal top employers: %w", err)
	}
	if err := json.Unmarshal(topLocations, &m.TopLocations); err != nil {
		return nil, fmt.Errorf("unmarshal top locations: %w", err)
	}
	if err := json.Unmarshal(categories, &m.SkillCategories); err != nil {
		return nil, fmt.Errorf("unmarshal categories: %w", err)
	}
	return &m, nil
}

// Count returns the number of recorded daily summaries.
func (s *MarketStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM market_summaries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	return n, nil
}
