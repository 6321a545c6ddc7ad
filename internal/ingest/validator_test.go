package ingest_test

import (
	"strings"
	"testing"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/ingest"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

func validPosting() *model.Posting {
	return &model.Posting{
		Title:    "Backend Engineer",
		Employer: "Acme Corp",
		Location: "Pune",
	}
}

// ── Validation rules ───────────────────────────────────────────────────────

func TestValidatePosting(t *testing.T) {
	manySkills := make([]model.ExtractedSkill, 51)
	for i := range manySkills {
		manySkills[i] = model.ExtractedSkill{Skill: "python", Category: model.CategoryProgramming}
	}

	cases := []struct {
		name    string
		mutate  func(*model.Posting)
		wantLen int
	}{
		{"valid posting", func(*model.Posting) {}, 0},
		{"title too short", func(p *model.Posting) { p.Title = "x" }, 1},
		{"title whitespace only", func(p *model.Posting) { p.Title = "   " }, 1},
		{"title too long", func(p *model.Posting) { p.Title = strings.Repeat("a", 201) }, 1},
		{"title at max length", func(p *model.Posting) { p.Title = strings.Repeat("a", 200) }, 0},
		{"employer too short", func(p *model.Posting) { p.Employer = "x" }, 1},
		{"employer too long", func(p *model.Posting) { p.Employer = strings.Repeat("a", 101) }, 1},
		{"too many skills", func(p *model.Posting) { p.Skills = manySkills }, 1},
		{"skills at cap", func(p *model.Posting) { p.Skills = manySkills[:50] }, 0},
		{"multiple violations", func(p *model.Posting) { p.Title = ""; p.Employer = "" }, 2},
	}
	for _, c := range cases {
		p := validPosting()
		c.mutate(p)
		if got := ingest.ValidatePosting(p); len(got) != c.wantLen {
			t.Errorf("%s: problems = %v, want %d", c.name, got, c.wantLen)
		}
	}
}

// ── Identity hash ──────────────────────────────────────────────────────────

func TestPostingHash_CaseInsensitive(t *testing.T) {
	a := ingest.PostingHash("Acme Corp", "Backend Engineer", "Pune")
	b := ingest.PostingHash("ACME CORP", "backend engineer", "PUNE")
	if a != b {
		t.Errorf("hash is case-sensitive: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("hash length = %d, want 32 hex chars", len(a))
	}
}

func TestPostingHash_DistinguishesFields(t *testing.T) {
	base := ingest.PostingHash("Acme", "Engineer", "Pune")
	cases := map[string]string{
		"employer": ingest.PostingHash("Beta", "Engineer", "Pune"),
		"title":    ingest.PostingHash("Acme", "Analyst", "Pune"),
		"location": ingest.PostingHash("Acme", "Engineer", "Delhi"),
	}
	for field, h := range cases {
		if h == base {
			t.Errorf("changing %s did not change the hash", field)
		}
	}
}
