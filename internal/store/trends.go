package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// TrendStore persists one record per (skill_name, category).
type TrendStore struct {
	pool *pgxpool.Pool
}

// NewTrendStore returns a configured TrendStore.
func NewTrendStore(pool *pgxpool.Pool) *TrendStore {
	return &TrendStore{pool: pool}
}

// Upsert replaces the trend record wholesale. Every field comes from the
// current analytics run; nothing is merged with the previous record.
func (s *TrendStore) Upsert(ctx context.Context, t *model.SkillTrend) error {
	jobCounts, err := json.Marshal(t.JobCounts)
	if err != nil {
		return fmt.Errorf("marshal job counts: %w", err)
	}
	growthRates, err := json.Marshal(t.GrowthRates)
	if err != nil {
		return fmt.Errorf("marshal growth rates: %w", err)
	}
	employers, err := json.Marshal(t.EmployersHiring)
	if err != nil {
		return fmt.Errorf("marshal employers: %w", err)
	}
	locations, err := json.Marshal(t.TopLocations)
	if err != nil {
		return fmt.Errorf("marshal locations: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO skill_trends (skill_name, category, job_counts, growth_rates,
		                           growth_rate, trend_direction, employers_hiring,
		                           top_locations, avg_salary_min, avg_salary_max,
		                           last_updated)
		 VALUES ($1, $2, $3::jsonb, $4::jsonb, $5, $6, $7::jsonb, $8::jsonb, $9, $10, $11)
		 ON CONFLICT (skill_name, category) DO UPDATE SET
		   job_counts       = EXCLUDED.job_counts,
		   growth_rates     = EXCLUDED.growth_rates,
		   growth_rate      = EXCLUDED.growth_rate,
		   trend_direction  = EXCLUDED.trend_direction,
		   employers_hiring = EXCLUDED.employers_hiring,
		   top_locations    = EXCLUDED.top_locations,
		   avg_salary_min   = EXCLUDED.avg_salary_min,
		   avg_salary_max   = EXCLUDED.avg_salary_max,
		   last_updated     = EXCLUDED.last_updated`,
		t.SkillName, string(t.Category), string(jobCounts), string(growthRates),
		t.GrowthRate, string(t.TrendDirection), string(employers), string(locations),
		t.AvgSalaryMin, t.AvgSalaryMax, t.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert trend %s/%s: %w", t.SkillName, t.Category, err)
	}
	return nil
}

// TrendQuery filters and orders a Trending read.
type TrendQuery struct {
	Category string // optional; must parse as a SkillCategory when set
	SortBy   string // one of sortColumns keys; defaults to "growth_rate"
	Limit    int    // defaults to 20, capped at 100
}

// sortColumns whitelists the ORDER BY expressions — the sort key arrives from
// a query parameter and must never reach the SQL string raw.
var sortColumns = map[string]string{
	"growth_rate":   "growth_rate DESC",
	"job_count_7d":  "(job_counts->>'7d')::int DESC",
	"job_count_30d": "(job_counts->>'30d')::int DESC",
	"skill_name":    "skill_name ASC",
}

// ValidSortKey reports whether Trending accepts the given sort key.
func ValidSortKey(key string) bool {
	_, ok := sortColumns[key]
	return ok
}

// Trending returns trend records ordered by the requested sort key.
func (s *TrendStore) Trending(ctx context.Context, q TrendQuery) ([]*model.SkillTrend, error) {
	if q.SortBy == "" {
		q.SortBy = "growth_rate"
	}
	orderBy, ok := sortColumns[q.SortBy]
	if !ok {
		return nil, fmt.Errorf("unknown sort key %q", q.SortBy)
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	base := `SELECT skill_name, category, job_counts, growth_rates, growth_rate,
	                trend_direction, employers_hiring, top_locations,
	                avg_salary_min, avg_salary_max, last_updated
	         FROM skill_trends`

	var (
		rows pgx.Rows
		err  error
	)
	if q.Category != "" {
		if _, perr := model.ParseCategory(q.Category); perr != nil {
			return nil, perr
		}
		rows, err = s.pool.Query(ctx,
			base+` WHERE category = $1 ORDER BY `+orderBy+`, skill_name ASC LIMIT $2`,
			q.Category, q.Limit)
	} else {
		rows, err = s.pool.Query(ctx,
			base+` ORDER BY `+orderBy+`, skill_name ASC LIMIT $1`, q.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("trending query: %w", err)
	}
	defer rows.Close()

	trends := make([]*model.SkillTrend, 0)
	for rows.Next() {
		var (
			t           model.SkillTrend
			jobCounts   []byte
			growthRates []byte
			employers   []byte
			locations   []byte
		)
		if err := rows.Scan(
			&t.SkillName, &t.Category, &jobCounts, &growthRates, &t.GrowthRate,
			&t.TrendDirection, &employers, &locations,
			&t.AvgSalaryMin, &t.AvgSalaryMax, &t.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("trending scan: %w", err)
		}
		if err := json.Unmarshal(jobCounts, &t.JobCounts); err != nil {
			return nil, fmt.Errorf("unmarshal job counts for %s: %w", t.SkillName, err)
		}
		if err := json.Unmarshal(growthRates, &t.GrowthRates); err != nil {
			return nil, fmt.Errorf("unmarshal growth rates for %s: %w", t.SkillName, err)
		}
		if err := json.Unmarshal(employers, &t.EmployersHiring); err != nil {
			return nil, fmt.Errorf("unmarshal employers for %s: %w", t.SkillName, err)
		}
		if err := json.Unmarshal(locations, &t.TopLocations); err != nil {
			return nil, fmt.Errorf("unmarshal locations for %s: %w", t.SkillName, err)
		}
		trends = append(trends, &t)
	}
	return trends, rows.Err()
}

// Count returns the number of distinct trend records.
func (s *TrendStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM skill_trends`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trends: %w", err)
	}
	return n, nil
}
