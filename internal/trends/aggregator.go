// Package trends contains the analytics engine: period aggregation, growth
// calculation, trend classification and the daily market rollup.
// It is transport- and storage-agnostic: stores are consumed via small
// interfaces declared in calculator.go.
package trends

import (
	"sort"
	"time"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// SalarySample is one valid (min, max) salary observation.
type SalarySample struct {
	Min float64
	Max float64
}

// PeriodBucket accumulates everything observed for one SkillKey inside one
// trailing window. Ephemeral — rebuilt from scratch on every run.
type PeriodBucket struct {
	Jobs      int
	Employers map[string]struct{}
	Locations map[string]struct{}
	Salaries  []SalarySample
}

func newPeriodBucket() *PeriodBucket {
	return &PeriodBucket{
		Employers: make(map[string]struct{}),
		Locations: make(map[string]struct{}),
	}
}

// WindowBuckets holds the buckets of a single trailing window.
type WindowBuckets map[model.SkillKey]*PeriodBucket

// AggregateWindow buckets the given postings into per-SkillKey counts for the
// trailing window of `days` days ending at now. A posting belongs to the
// window when its effective date (posted date, falling back to scrape date)
// is on or after the cutoff. Salary samples are recorded only when both
// bounds are present.
func AggregateWindow(postings []*model.Posting, days int, now time.Time) WindowBuckets {
	cutoff := now.AddDate(0, 0, -days)
	buckets := make(WindowBuckets)

	for _, p := range postings {
		if model.EffectiveDate(p).Before(cutoff) {
			continue
		}
		for _, s := range p.Skills {
			key := model.SkillKey{Skill: s.Skill, Category: s.Category}
			b, ok := buckets[key]
			if !ok {
				b = newPeriodBucket()
				buckets[key] = b
			}
			b.Jobs++
			if p.Employer != "" {
				b.Employers[p.Employer] = struct{}{}
			}
			if p.Location != "" {
				b.Locations[p.Location] = struct{}{}
			}
			if p.Salary.Min != nil && p.Salary.Max != nil {
				b.Salaries = append(b.Salaries, SalarySample{Min: *p.Salary.Min, Max: *p.Salary.Max})
			}
		}
	}
	return buckets
}

// KeyUnion returns every SkillKey observed in any window, sorted by skill
// name then category. A skill absent from the short windows but present in a
// long one still gets a zero count downstream rather than being dropped.
func KeyUnion(byWindow map[int]WindowBuckets) []model.SkillKey {
	seen := make(map[model.SkillKey]struct{})
	for _, buckets := range byWindow {
		for key := range buckets {
			seen[key] = struct{}{}
		}
	}

	keys := make([]model.SkillKey, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Skill != keys[j].Skill {
			return keys[i].Skill < keys[j].Skill
		}
		return keys[i].Category < keys[j].Category
	})
	return keys
}

// sortedCap returns up to limit set members in lexicographic order.
// Deterministic ordering keeps repeated runs byte-identical.
func sortedCap(set map[string]struct{}, limit int) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// averageSalary averages the valid samples; both returns are nil when there
// are none.
func averageSalary(samples []SalarySample) (*float64, *float64) {
	if len(samples) == 0 {
		return nil, nil
	}
	var sumMin, sumMax float64
	for _, s := range samples {
		sumMin += s.Min
		sumMax += s.Max
	}
	avgMin := round2(sumMin / float64(len(samples)))
	avgMax := round2(sumMax / float64(len(samples)))
	return &avgMin, &avgMax
}
