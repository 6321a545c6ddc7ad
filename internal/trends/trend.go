package trends

import (
	"fmt"
	"time"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// BuildTrend assembles the full trend record for one SkillKey from the
// per-window buckets. Pure function: one key's record never depends on
// another key's data, which is the seam for parallelising the batch later.
//
// Employer/location lists and salary samples come from the longest window —
// the most complete view of the skill — capped and sorted deterministically.
func BuildTrend(cfg Config, key model.SkillKey, byWindow map[int]WindowBuckets, now time.Time) *model.SkillTrend {
	windows := cfg.sortedWindows()

	counts := make(map[int]int, len(windows))
	jobCounts := make(map[string]int, len(windows))
	for _, w := range windows {
		var jobs int
		if b := byWindow[w][key]; b != nil {
			jobs = b.Jobs
		}
		counts[w] = jobs
		jobCounts[fmt.Sprintf("%dd", w)] = jobs
	}

	rates, composite := ComputeGrowth(cfg, counts)
	direction := Classify(composite, counts[windows[0]])

	trend := &model.SkillTrend{
		SkillName:      key.Skill,
		Category:       key.Category,
		JobCounts:      jobCounts,
		GrowthRates:    rates,
		GrowthRate:     composite,
		TrendDirection: direction,
		LastUpdated:    now,
	}

	longest := windows[len(windows)-1]
	if b := byWindow[longest][key]; b != nil {
		trend.EmployersHiring = sortedCap(b.Employers, cfg.TopEmployers)
		trend.TopLocations = sortedCap(b.Locations, cfg.TopLocations)
		trend.AvgSalaryMin, trend.AvgSalaryMax = averageSalary(b.Salaries)
	} else {
		trend.EmployersHiring = []string{}
		trend.TopLocations = []string{}
	}

	return trend
}
