package skills

import (
	"regexp"
	"strings"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

// Matcher holds one compiled case-insensitive recognizer per category.
// Compile once and reuse for the whole run: the (posting × category) scan is
// the dominant cost of extraction.
type Matcher struct {
	patterns map[model.SkillCategory]*regexp.Regexp
}

// NewMatcher compiles recognizers for the full vocabulary.
func NewMatcher() *Matcher {
	patterns := make(map[model.SkillCategory]*regexp.Regexp, len(vocabulary))
	for category, terms := range vocabulary {
		patterns[category] = compileCategory(terms)
	}
	return &Matcher{patterns: patterns}
}

// compileCategory joins every term of a category into a single alternation.
// Dotted terms get an optional dot (so "node.js" and "nodejs" both match);
// all other terms match as whole words.
func compileCategory(terms []string) *regexp.Regexp {
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		escaped := regexp.QuoteMeta(term)
		if strings.Contains(term, ".") {
			parts = append(parts, strings.ReplaceAll(escaped, `\.`, `\.?`))
		} else {
			parts = append(parts, `\b`+escaped+`\b`)
		}
	}
	return regexp.MustCompile(`(?i)` + strings.Join(parts, "|"))
}

// Match is one occurrence of a vocabulary term in a text.
type Match struct {
	Raw   string // matched substring, as it appears in the text
	Start int    // byte offset of the match
}

// FindAll returns every occurrence of the category's terms in text.
// The caller is expected to pass lower-cased text so offsets line up with the
// context windows used for confidence scoring.
func (m *Matcher) FindAll(category model.SkillCategory, text string) []Match {
	re, ok := m.patterns[category]
	if !ok {
		return nil
	}
	locs := re.FindAllStringIndex(text, -1)
	if locs == nil {
		return nil
	}
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, Match{Raw: text[loc[0]:loc[1]], Start: loc[0]})
	}
	return matches
}
