// Package model defines the shared data structures for the trends analyzer.
package model

import (
	"fmt"
	"time"
)

// ─── Enums ───────────────────────────────────────────────────────────────────

// SkillCategory values mirror the category column in skill_trends.
type SkillCategory string

const (
	CategoryProgramming SkillCategory = "programming"
	CategoryFrontend    SkillCategory = "frontend"
	CategoryBackend     SkillCategory = "backend"
	CategoryDatabases   SkillCategory = "databases"
	CategoryCloud       SkillCategory = "cloud"
	CategoryMobile      SkillCategory = "mobile"
	CategoryData        SkillCategory = "data"
	CategoryTools       SkillCategory = "tools"
)

// Categories lists every skill category in a fixed, sorted order. Iteration
// over this slice (never over a map) keeps extraction and aggregation
// deterministic across runs.
var Categories = []SkillCategory{
	CategoryBackend,
	CategoryCloud,
	CategoryData,
	CategoryDatabases,
	CategoryFrontend,
	CategoryMobile,
	CategoryProgramming,
	CategoryTools,
}

// ParseCategory converts a raw string to a SkillCategory, returning an error
// for unknown values.
func ParseCategory(s string) (SkillCategory, error) {
	c := SkillCategory(s)
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown skill category %q", s)
}

// TrendDirection classifies a skill's demand trajectory.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// ─── Postings ────────────────────────────────────────────────────────────────

// SalaryRange holds optional salary bounds attached to a posting.
// Both bounds must be present for the posting to contribute a salary sample.
type SalaryRange struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

// ExtractedSkill is one normalized skill tag attached to a posting.
type ExtractedSkill struct {
	Skill      string        `json:"skill"`
	Category   SkillCategory `json:"category"`
	Confidence float64       `json:"confidence"`
}

// Posting is a normalized job offer as stored in the postings table.
// Immutable once ingested.
type Posting struct {
	ID             string
	Hash           string // md5 of lowercase employer-title-location, dedup key
	Title          string
	Employer       string
	Location       string
	Description    string
	Requirements   string
	SourceURL      string
	SourceSite     string
	SearchTerm     string
	SearchLocation string
	Skills         []ExtractedSkill
	Salary         SalaryRange
	PostedDate     string // raw value from the job board, may be empty or junk
	ScrapedAt      time.Time
}

// postedDateLayouts lists the accepted posted_date formats, tried in order.
var postedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// EffectiveDate resolves the date a posting counts under for window
// aggregation: the explicit posted date when parseable, otherwise the scrape
// timestamp. Both the store (index column) and the aggregator (bucket
// assignment) go through this one function.
func EffectiveDate(p *Posting) time.Time {
	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, p.PostedDate); err == nil {
			return t
		}
	}
	return p.ScrapedAt
}

// ─── Trends ──────────────────────────────────────────────────────────────────

// SkillKey is the unique identity for all aggregation and persistence.
type SkillKey struct {
	Skill    string
	Category SkillCategory
}

// SkillTrend is the persisted trend record, exactly one per SkillKey.
// Every field is recomputed and replaced wholesale on each analytics run.
type SkillTrend struct {
	SkillName       string             `json:"skillName"`
	Category        SkillCategory      `json:"category"`
	JobCounts       map[string]int     `json:"jobCounts"`   // "7d" → count
	GrowthRates     map[string]float64 `json:"growthRates"` // "7d_vs_23d" → %
	GrowthRate      float64            `json:"growthRate"`  // composite
	TrendDirection  TrendDirection     `json:"trendDirection"`
	EmployersHiring []string           `json:"employersHiring"` // ≤ 15
	TopLocations    []string           `json:"topLocations"`    // ≤ 10
	AvgSalaryMin    *float64           `json:"avgSalaryMin,omitempty"`
	AvgSalaryMax    *float64           `json:"avgSalaryMax,omitempty"`
	LastUpdated     time.Time          `json:"lastUpdated"`
}

// Key returns the trend's SkillKey.
func (t *SkillTrend) Key() SkillKey {
	return SkillKey{Skill: t.SkillName, Category: t.Category}
}

// ─── Market summary ──────────────────────────────────────────────────────────

// CountItem is a (name, count) pair used in rollup top-N lists.
type CountItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MarketSummary is the persisted daily rollup, one record per calendar day.
type MarketSummary struct {
	Date            time.Time      `json:"date"` // truncated to the day
	TotalPostings   int            `json:"totalPostings"`
	NewPostings24h  int            `json:"newPostings24h"`
	PostingsWeek    int            `json:"postingsWeek"`
	TopSkills       []CountItem    `json:"topSkills"`
	TopEmployers    []CountItem    `json:"topEmployers"`
	TopLocations    []CountItem    `json:"topLocations"`
	SkillCategories map[string]int `json:"skillCategories"`
	UniqueSkills    int            `json:"uniqueSkills"`
	GeneratedAt     time.Time      `json:"generatedAt"`
}
