// Package store holds the Postgres persistence layer. One store type per
// table; all SQL lives here.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// PostingStore persists raw job postings.
type PostingStore struct {
	pool *pgxpool.Pool
}

// NewPostingStore returns a configured PostingStore.
func NewPostingStore(pool *pgxpool.Pool) *PostingStore {
	return &PostingStore{pool: pool}
}

// Insert stores a posting unless one with the same hash already exists.
// Returns true when the row was inserted, false on a duplicate.
func (s *PostingStore) Insert(ctx context.Context, p *model.Posting) (bool, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	skillsJSON, err := json.Marshal(p.Skills)
	if err != nil {
		return false, fmt.Errorf("marshal skills: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO postings (id, posting_hash, title, employer, location,
		                       description, requirements, source_url, source_site,
		                       search_term, search_location, skills,
		                       salary_min, salary_max, salary_currency,
		                       posted_date, effective_date, scraped_at)
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb,
		        $13, $14, $15, $16, $17, $18
		 WHERE NOT EXISTS (
		   SELECT 1 FROM postings WHERE posting_hash = $2
		 )`,
		p.ID, p.Hash, p.Title, p.Employer, p.Location,
		p.Description, p.Requirements, p.SourceURL, p.SourceSite,
		p.SearchTerm, p.SearchLocation, string(skillsJSON),
		p.Salary.Min, p.Salary.Max, p.Salary.Currency,
		p.PostedDate, model.EffectiveDate(p), p.ScrapedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert posting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const postingColumns = `id, posting_hash, title, employer, location,
	description, requirements, source_url, source_site,
	search_term, search_location, skills,
	salary_min, salary_max, salary_currency,
	posted_date, scraped_at`

// TaggedSince returns skill-tagged postings whose effective date is on or
// after since. Postings with an empty skill list carry no signal and are
// excluded at the SQL level.
func (s *PostingStore) TaggedSince(ctx context.Context, since time.Time) ([]*model.Posting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postingColumns+`
		 FROM postings
		 WHERE effective_date >= $1 AND jsonb_array_length(skills) > 0`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("taggedSince query: %w", err)
	}
	defer rows.Close()
	return scanPostings(rows)
}

// ScrapedSince returns every posting ingested on or after since.
func (s *PostingStore) ScrapedSince(ctx context.Context, since time.Time) ([]*model.Posting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postingColumns+` FROM postings WHERE scraped_at >= $1`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("scrapedSince query: %w", err)
	}
	defer rows.Close()
	return scanPostings(rows)
}

// CountAll returns the total number of stored postings.
func (s *PostingStore) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM postings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count postings: %w", err)
	}
	return n, nil
}

// CountScrapedSince returns the number of postings ingested on or after since.
func (s *PostingStore) CountScrapedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM postings WHERE scraped_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recent postings: %w", err)
	}
	return n, nil
}

// DeleteOlderThan removes postings whose effective date predates cutoff and
// returns how many rows were deleted. Used by the retention job.
func (s *PostingStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM postings WHERE effective_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old postings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanPostings(rows pgx.Rows) ([]*model.Posting, error) {
	postings := make([]*model.Posting, 0)
	for rows.Next() {
		var (
			p          model.Posting
			skillsJSON []byte
		)
		if err := rows.Scan(
			&p.ID, &p.Hash, &p.Title, &p.Employer, &p.Location,
			&p.Description, &p.Requirements, &p.SourceURL, &p.SourceSite,
			&p.SearchTerm, &p.SearchLocation, &skillsJSON,
			&p.Salary.Min, &p.Salary.Max, &p.Salary.Currency,
			&p.PostedDate, &p.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		if err := json.Unmarshal(skillsJSON, &p.Skills); err != nil {
			return nil, fmt.Errorf("unmarshal skills for posting %s: %w", p.ID, err)
		}
		postings = append(postings, &p)
	}
	return postings, rows.Err()
}
