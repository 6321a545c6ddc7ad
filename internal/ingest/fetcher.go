// Package ingest fetches postings from the external job-search API,
// validates them, tags skills, and dedup-inserts into Postgres.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	fetchPageSize = 50
	fetchMaxPages = 3 // max 150 results per (term × location) pair
	httpTimeout   = 15 * time.Second
)

// Fetcher pages through the external job-search API. If APIKey is empty,
// Fetch returns (nil, nil) gracefully — the worker simply skips that round
// and logs a warning.
type Fetcher struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewFetcher constructs a Fetcher with a shared HTTP client.
func NewFetcher(baseURL, apiKey string) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// searchResponse mirrors the API's wrapper object. Some deployments return a
// bare array instead; fetchPage handles both.
type searchResponse struct {
	Results []searchResult `json:"results"`
	Count   int            `json:"count"`
}

// searchResult mirrors a single listing from the search API.
type searchResult struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	SalaryMin    *float64 `json:"salary_min"`
	SalaryMax    *float64 `json:"salary_max"`
	Currency     string   `json:"salary_currency"`
	URL          string   `json:"url"`
	Site         string   `json:"site"`
	PostedDate   string   `json:"posted_date"`
}

// Fetch retrieves all available listings for a given search term and
// location, iterating through pages until no more results or fetchMaxPages
// is reached. Returns nil without error when credentials are missing.
func (f *Fetcher) Fetch(ctx context.Context, term, location string) ([]searchResult, error) {
	if f.BaseURL == "" || f.APIKey == "" {
		log.Println("[fetcher] JOBS_API_URL / JOBS_API_KEY not set — skipping fetch")
		return nil, nil
	}

	var results []searchResult

	for page := 1; page <= fetchMaxPages; page++ {
		batch, err := f.fetchPage(ctx, term, location, page)
		if err != nil {
			return results, fmt.Errorf("page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break // No more results
		}
		results = append(results, batch...)
		if len(batch) < fetchPageSize {
			break // Last page
		}
	}

	return results, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, term, location string, page int) ([]searchResult, error) {
	params := url.Values{}
	params.Set("q", term)
	params.Set("location", location)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(fetchPageSize))

	reqURL := f.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", f.APIKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, string(body))
	}

	var wrapped searchResponse
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results, nil
	}

	// Bare-array fallback.
	var bare []searchResult
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return bare, nil
}
