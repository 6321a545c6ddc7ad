package skills

import (
	"sort"
	"strings"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// DefaultConfidenceThreshold is the minimum confidence (strictly exceeded)
// for an extracted skill to be kept.
const DefaultConfidenceThreshold = 0.3

// Extractor runs every category recognizer over a posting's text and returns
// a deduplicated, high-confidence skill set.
type Extractor struct {
	matcher   *Matcher
	scorer    *Scorer
	threshold float64
}

// NewExtractor builds an Extractor with the given acceptance threshold.
// Construct once and reuse: pattern compilation dominates setup cost.
func NewExtractor(threshold float64) *Extractor {
	return &Extractor{
		matcher:   NewMatcher(),
		scorer:    NewScorer(),
		threshold: threshold,
	}
}

// Extract returns the skill tags for one posting. Missing fields are treated
// as empty; a posting without any text yields an empty result, not an error.
//
// When the same normalized skill matches more than once — same or different
// category — the occurrence with the strictly higher confidence wins, so the
// result never contains duplicate skill names and each entry's category is
// chosen by confidence, not by pattern order.
func (e *Extractor) Extract(title, description, requirements string) []model.ExtractedSkill {
	full := strings.ToLower(strings.TrimSpace(title + " " + description + " " + requirements))
	if full == "" {
		return nil
	}

	type scored struct {
		category   model.SkillCategory
		confidence float64
	}
	best := make(map[string]scored)

	// Fixed category order keeps equal-confidence ties deterministic.
	for _, category := range model.Categories {
		for _, m := range e.matcher.FindAll(category, full) {
			name := Normalize(m.Raw)
			if len(name) < 2 {
				continue
			}
			confidence := e.scorer.Score(name, full, m.Start)
			if prev, ok := best[name]; !ok || confidence > prev.confidence {
				best[name] = scored{category: category, confidence: confidence}
			}
		}
	}

	out := make([]model.ExtractedSkill, 0, len(best))
	for name, s := range best {
		if s.confidence > e.threshold {
			out = append(out, model.ExtractedSkill{
				Skill:      name,
				Category:   s.category,
				Confidence: s.confidence,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Skill < out[j].Skill })
	return out
}
