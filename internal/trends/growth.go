package trends

import (
	"fmt"
	"math"
	"sort"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// Config is the tuning surface of the analytics engine. Zero values are not
// usable; start from DefaultConfig.
type Config struct {
	// Windows are the trailing window lengths in days, ascending.
	Windows []int
	// OutlierThreshold discards pairwise rates with a larger absolute value
	// from the composite. Low base counts produce huge percentages that are
	// measurement noise, not signal.
	OutlierThreshold float64
	// CompositeWeights weight the two most recent surviving pairwise rates.
	CompositeWeights [2]float64
	// FallbackClamp bounds the fallback rate when every pair was an outlier.
	FallbackClamp float64
	// Epsilon substitutes for a zero older-period daily rate so a skill with
	// no older postings registers as explosive growth instead of dividing by
	// zero.
	Epsilon float64
	// TopEmployers / TopLocations cap the lists persisted per trend record.
	TopEmployers int
	TopLocations int
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Windows:          []int{7, 30, 60},
		OutlierThreshold: 500,
		CompositeWeights: [2]float64{0.7, 0.3},
		FallbackClamp:    200,
		Epsilon:          0.01,
		TopEmployers:     15,
		TopLocations:     10,
	}
}

// sortedWindows returns the configured windows in ascending order.
func (c Config) sortedWindows() []int {
	windows := make([]int, len(c.Windows))
	copy(windows, c.Windows)
	sort.Ints(windows)
	return windows
}

// pairRate is one adjacent-window comparison, most recent pairs first.
type pairRate struct {
	label string
	rate  float64
}

// ComputeGrowth derives the labeled pairwise growth rates and the composite
// growth score from per-window job counts.
//
// For each adjacent window pair (S < L days) the longer window's surplus
// `L_count − S_count` is the "older-only" slice spanning L−S days. The pair's
// rate compares the recent daily rate S_count/S against the older daily rate,
// as a percentage change. Daily rates carry three decimals, pair rates two.
//
// The composite is a recency-weighted blend of the surviving (non-outlier)
// rates; see the switch at the bottom for the degenerate cases.
func ComputeGrowth(cfg Config, counts map[int]int) (map[string]float64, float64) {
	windows := cfg.sortedWindows()

	var pairs []pairRate
	for i := 0; i+1 < len(windows); i++ {
		s, l := windows[i], windows[i+1]
		recentCount, longCount := counts[s], counts[l]
		if recentCount == 0 && longCount == 0 {
			continue // window pair carries no data at all
		}

		olderCount := longCount - recentCount
		dailyRecent := round3(float64(recentCount) / float64(s))
		dailyOlder := cfg.Epsilon
		if olderCount > 0 {
			dailyOlder = round3(float64(olderCount) / float64(l-s))
		}

		rate := round2((dailyRecent - dailyOlder) / dailyOlder * 100)
		pairs = append(pairs, pairRate{
			label: fmt.Sprintf("%dd_vs_%dd", s, l-s),
			rate:  rate,
		})
	}

	detail := make(map[string]float64, len(pairs))
	var surviving []float64
	for _, p := range pairs {
		detail[p.label] = p.rate
		if math.Abs(p.rate) <= cfg.OutlierThreshold {
			surviving = append(surviving, p.rate)
		}
	}

	var composite float64
	switch {
	case len(pairs) == 0:
		composite = 0.0
	case len(surviving) >= 2:
		composite = round2(surviving[0]*cfg.CompositeWeights[0] + surviving[1]*cfg.CompositeWeights[1])
	case len(surviving) == 1:
		composite = surviving[0]
	default:
		// Every pair was an outlier: fall back to the first raw rate, clamped.
		// Arbitrary but documented policy — keeps the output bounded and defined.
		composite = clamp(pairs[0].rate, -cfg.FallbackClamp, cfg.FallbackClamp)
	}

	return detail, composite
}

// Classify maps the composite growth rate and the shortest-window job count
// onto a trend direction. The highest activity tier the count reaches decides
// which growth threshold applies, and the threshold is strict — growth of
// exactly 50 with five recent postings is not UP. The activity gates keep
// near-zero-volume skills from registering strong trends out of
// small-integer arithmetic.
func Classify(growth float64, recentCount int) model.TrendDirection {
	switch {
	case recentCount >= 5:
		if growth > 50 {
			return model.TrendUp
		}
	case recentCount >= 2:
		if growth > 20 {
			return model.TrendUp
		}
	case recentCount >= 1:
		if growth > 5 {
			return model.TrendUp
		}
	}
	if growth < -20 || recentCount == 0 {
		return model.TrendDown
	}
	return model.TrendStable
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
