package trends

import (
	"sort"
	"time"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// rollupTopN caps the top-skill/employer/location lists in the daily summary.
const rollupTopN = 10

// BuildMarketSummary computes the daily cross-skill rollup from the trailing
// week of postings (selected by scrape time — the summary measures ingest
// freshness, not posting age). totalPostings and uniqueSkills come from the
// store since they span all history.
func BuildMarketSummary(weekPostings []*model.Posting, totalPostings, uniqueSkills int, now time.Time) *model.MarketSummary {
	dayAgo := now.Add(-24 * time.Hour)

	var new24h int
	skillCounts := make(map[string]int)
	employerCounts := make(map[string]int)
	locationCounts := make(map[string]int)
	categoryCounts := make(map[string]int)

	for _, p := range weekPostings {
		if !p.ScrapedAt.Before(dayAgo) {
			new24h++
		}
		if p.Employer != "" {
			employerCounts[p.Employer]++
		}
		if p.Location != "" {
			locationCounts[p.Location]++
		}
		for _, s := range p.Skills {
			skillCounts[s.Skill]++
			categoryCounts[string(s.Category)]++
		}
	}

	return &model.MarketSummary{
		Date:            now.UTC().Truncate(24 * time.Hour),
		TotalPostings:   totalPostings,
		NewPostings24h:  new24h,
		PostingsWeek:    len(weekPostings),
		TopSkills:       topN(skillCounts, rollupTopN),
		TopEmployers:    topN(employerCounts, rollupTopN),
		TopLocations:    topN(locationCounts, rollupTopN),
		SkillCategories: categoryCounts,
		UniqueSkills:    uniqueSkills,
		GeneratedAt:     now,
	}
}

// topN returns the n highest-count entries, ordered by count descending and
// name ascending on ties so the rollup is stable across runs.
func topN(counts map[string]int, n int) []model.CountItem {
	items := make([]model.CountItem, 0, len(counts))
	for name, count := range counts {
		items = append(items, model.CountItem{Name: name, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
