package skills

import (
	"fmt"
	"regexp"
	"strings"
)

// contextWindow is the number of characters inspected on each side of a match.
const contextWindow = 50

// Context cue patterns. Experience and proficiency cues must immediately
// precede the skill itself; the requirement cue counts anywhere in the window.
const (
	experienceCue  = `\d+[+\-]?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience\s*)?(?:in\s*|with\s*)?`
	proficiencyCue = `(?:expert|proficient|skilled|experienced|knowledge)\s*(?:in\s*|with\s*)?`
)

var requirementRe = regexp.MustCompile(`(?:required|must\s*have|should\s*have|need)\s*(?:knowledge\s*of\s*)?`)

// Scorer judges whether a matched term is a genuine skill mention or
// incidental text (an email address, a URL). Skill-suffixed cue patterns are
// compiled lazily and cached; the cache is bounded by the vocabulary size.
//
// Not safe for concurrent use — extraction is a single-goroutine batch pass.
type Scorer struct {
	experience  map[string]*regexp.Regexp
	proficiency map[string]*regexp.Regexp
}

// NewScorer returns a Scorer with empty pattern caches.
func NewScorer() *Scorer {
	return &Scorer{
		experience:  make(map[string]*regexp.Regexp),
		proficiency: make(map[string]*regexp.Regexp),
	}
}

// Score returns a confidence in [0,1] for the skill found in text at byte
// offset pos. text must already be lower-cased.
//
// Base 0.5, +0.3 for an experience cue, +0.2 for a proficiency cue, +0.2 for
// a requirement cue, −0.4 when the window looks like an email address or URL.
func (s *Scorer) Score(skill, text string, pos int) float64 {
	confidence := 0.5

	start := pos - contextWindow
	if start < 0 {
		start = 0
	}
	end := pos + len(skill) + contextWindow
	if end > len(text) {
		end = len(text)
	}
	context := text[start:end]

	if s.cue(s.experience, experienceCue, skill).MatchString(context) {
		confidence += 0.3
	}
	if s.cue(s.proficiency, proficiencyCue, skill).MatchString(context) {
		confidence += 0.2
	}
	if requirementRe.MatchString(context) {
		confidence += 0.2
	}
	if strings.Contains(context, "@") || strings.Contains(context, "http") || strings.Contains(context, ".com") {
		confidence -= 0.4
	}

	if confidence > 1.0 {
		return 1.0
	}
	if confidence < 0.0 {
		return 0.0
	}
	return confidence
}

// cue returns the cached cue-then-skill pattern, compiling it on first use.
func (s *Scorer) cue(cache map[string]*regexp.Regexp, prefix, skill string) *regexp.Regexp {
	if re, ok := cache[skill]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(`(?i)%s%s`, prefix, regexp.QuoteMeta(skill)))
	cache[skill] = re
	return re
}
