package skills_test

import (
	"testing"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/skills"
)

// ── Dot-optional terms ─────────────────────────────────────────────────────

// A dotted vocabulary term must match both its dotted and dot-free spellings
// through the same compiled pattern.
func TestFindAll_DottedTermMatchesBothSpellings(t *testing.T) {
	m := skills.NewMatcher()

	for _, text := range []string{"we run node.js in production", "we run nodejs in production"} {
		got := m.FindAll(model.CategoryBackend, text)
		if len(got) == 0 {
			t.Fatalf("FindAll(backend, %q) found nothing", text)
		}
		if skills.Normalize(got[0].Raw) != "nodejs" {
			t.Errorf("FindAll(backend, %q) first match %q, want a nodejs spelling", text, got[0].Raw)
		}
	}
}

// ── Word boundaries ────────────────────────────────────────────────────────

// "java" must not fire inside "javascript"; the longer term wins instead.
func TestFindAll_WholeWordOnly(t *testing.T) {
	m := skills.NewMatcher()

	got := m.FindAll(model.CategoryProgramming, "senior javascript engineer")
	if len(got) != 1 {
		t.Fatalf("FindAll returned %d matches, want 1: %+v", len(got), got)
	}
	if got[0].Raw != "javascript" {
		t.Errorf("matched %q, want %q", got[0].Raw, "javascript")
	}
}

func TestFindAll_CaseInsensitive(t *testing.T) {
	m := skills.NewMatcher()

	got := m.FindAll(model.CategoryProgramming, "experience with Python and GOLANG")
	names := make(map[string]bool)
	for _, match := range got {
		names[skills.Normalize(match.Raw)] = true
	}
	if !names["python"] || !names["golang"] {
		t.Errorf("matches = %+v, want python and golang", got)
	}
}

func TestFindAll_ReportsOffsets(t *testing.T) {
	m := skills.NewMatcher()

	text := "needs python now"
	got := m.FindAll(model.CategoryProgramming, text)
	if len(got) != 1 {
		t.Fatalf("FindAll returned %d matches, want 1", len(got))
	}
	if got[0].Start != 6 {
		t.Errorf("match offset = %d, want 6", got[0].Start)
	}
}

// ── Normalize ──────────────────────────────────────────────────────────────

func TestNormalize_AliasTable(t *testing.T) {
	cases := map[string]string{
		"vue.js":              "vue",
		"node.js":             "nodejs",
		"gcp":                 "google cloud",
		"amazon web services": "aws",
		"GitLab CI":           "gitlab",
		"python":              "python", // not aliased — passes through
		" react ":             "react",  // trimmed
	}
	for raw, want := range cases {
		if got := skills.Normalize(raw); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}
