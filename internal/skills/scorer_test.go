package skills_test

import (
	"strings"
	"testing"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/skills"
)

func scoreOf(t *testing.T, text, skill string) float64 {
	t.Helper()
	pos := strings.Index(text, skill)
	if pos < 0 {
		t.Fatalf("test text does not contain %q", skill)
	}
	return skills.NewScorer().Score(skill, text, pos)
}

// ── Base and cues ──────────────────────────────────────────────────────────

func TestScore_PlainMentionIsBase(t *testing.T) {
	if got := scoreOf(t, "the team also uses python sometimes", "python"); got != 0.5 {
		t.Errorf("plain mention score = %v, want 0.5", got)
	}
}

func TestScore_ExperienceCue(t *testing.T) {
	got := scoreOf(t, "7+ years of experience in python preferred", "python")
	if got != 0.8 {
		t.Errorf("experience-cue score = %v, want 0.8", got)
	}
}

func TestScore_ProficiencyCue(t *testing.T) {
	if got := scoreOf(t, "we want someone proficient in terraform", "terraform"); got != 0.7 {
		t.Errorf("proficiency-cue score = %v, want 0.7", got)
	}
}

func TestScore_RequirementCueAnywhereInWindow(t *testing.T) {
	if got := scoreOf(t, "docker is required for this role", "docker"); got != 0.7 {
		t.Errorf("requirement-cue score = %v, want 0.7", got)
	}
}

// ── Noise guard ────────────────────────────────────────────────────────────

func TestScore_EmailContextPenalized(t *testing.T) {
	if got := scoreOf(t, "send your resume to contact@r.com", "r"); got > 0.3 {
		t.Errorf("email-context score = %v, want ≤ 0.3", got)
	}
}

func TestScore_URLContextPenalized(t *testing.T) {
	if got := scoreOf(t, "see http://go.example/jobs for the go listing", "go"); got > 0.3 {
		t.Errorf("url-context score = %v, want ≤ 0.3", got)
	}
}

// ── Clamping ───────────────────────────────────────────────────────────────

func TestScore_ClampedToOne(t *testing.T) {
	// Experience + proficiency + requirement cues all fire: 1.2 before clamping.
	text := "must have 3 years experience with python, expert in python"
	if got := scoreOf(t, text, "python"); got != 1.0 {
		t.Errorf("stacked-cue score = %v, want clamp to 1.0", got)
	}
}

// ── Window bounds ──────────────────────────────────────────────────────────

// A requirement cue more than 50 characters before the match must not count.
func TestScore_CueOutsideWindowIgnored(t *testing.T) {
	padding := strings.Repeat("x ", 30) // 60 chars between cue and skill
	text := "required " + padding + "python"
	if got := scoreOf(t, text, "python"); got != 0.5 {
		t.Errorf("out-of-window cue score = %v, want 0.5", got)
	}
}
