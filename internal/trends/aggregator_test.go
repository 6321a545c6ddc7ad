package trends_test

import (
	"testing"
	"time"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/trends"
)

var testNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

func posting(employer, location string, daysAgo int, skillNames ...string) *model.Posting {
	skills := make([]model.ExtractedSkill, 0, len(skillNames))
	for _, s := range skillNames {
		skills = append(skills, model.ExtractedSkill{Skill: s, Category: model.CategoryProgramming, Confidence: 0.5})
	}
	return &model.Posting{
		Employer:  employer,
		Location:  location,
		Skills:    skills,
		ScrapedAt: testNow.AddDate(0, 0, -daysAgo),
	}
}

// ── Window membership ──────────────────────────────────────────────────────

func TestAggregateWindow_CutoffByEffectiveDate(t *testing.T) {
	postings := []*model.Posting{
		posting("Acme", "Pune", 3, "python"),
		posting("Beta", "Delhi", 10, "python"), // outside a 7-day window
	}

	buckets := trends.AggregateWindow(postings, 7, testNow)
	key := model.SkillKey{Skill: "python", Category: model.CategoryProgramming}

	b, ok := buckets[key]
	if !ok {
		t.Fatal("python bucket missing")
	}
	if b.Jobs != 1 {
		t.Errorf("7d job count = %d, want 1", b.Jobs)
	}
	if _, ok := b.Employers["Beta"]; ok {
		t.Error("employer outside the window leaked into the bucket")
	}
}

// The posted date, when parseable, overrides the scrape date for window
// placement.
func TestAggregateWindow_PostedDateWins(t *testing.T) {
	p := posting("Acme", "Pune", 2, "python")
	p.PostedDate = testNow.AddDate(0, 0, -20).Format("2006-01-02") // actually 20 days old

	buckets := trends.AggregateWindow([]*model.Posting{p}, 7, testNow)
	if len(buckets) != 0 {
		t.Errorf("posting posted 20 days ago must not appear in the 7d window: %v", buckets)
	}

	buckets = trends.AggregateWindow([]*model.Posting{p}, 30, testNow)
	key := model.SkillKey{Skill: "python", Category: model.CategoryProgramming}
	if b := buckets[key]; b == nil || b.Jobs != 1 {
		t.Errorf("posting must appear in the 30d window, got %v", buckets)
	}
}

// ── Bucket contents ────────────────────────────────────────────────────────

func TestAggregateWindow_SetsDeduplicate(t *testing.T) {
	postings := []*model.Posting{
		posting("Acme", "Pune", 1, "python"),
		posting("Acme", "Pune", 2, "python"),
		posting("Beta", "Pune", 3, "python"),
	}

	buckets := trends.AggregateWindow(postings, 7, testNow)
	b := buckets[model.SkillKey{Skill: "python", Category: model.CategoryProgramming}]
	if b == nil {
		t.Fatal("python bucket missing")
	}
	if b.Jobs != 3 {
		t.Errorf("job count = %d, want 3", b.Jobs)
	}
	if len(b.Employers) != 2 {
		t.Errorf("employer set size = %d, want 2", len(b.Employers))
	}
	if len(b.Locations) != 1 {
		t.Errorf("location set size = %d, want 1", len(b.Locations))
	}
}

// Only postings carrying both salary bounds contribute a sample.
func TestAggregateWindow_SalaryRequiresBothBounds(t *testing.T) {
	lo, hi := 500000.0, 900000.0

	complete := posting("Acme", "Pune", 1, "python")
	complete.Salary = model.SalaryRange{Min: &lo, Max: &hi}
	minOnly := posting("Beta", "Delhi", 2, "python")
	minOnly.Salary = model.SalaryRange{Min: &lo}
	none := posting("Gamma", "Mumbai", 3, "python")

	buckets := trends.AggregateWindow([]*model.Posting{complete, minOnly, none}, 7, testNow)
	b := buckets[model.SkillKey{Skill: "python", Category: model.CategoryProgramming}]
	if b == nil {
		t.Fatal("python bucket missing")
	}
	if len(b.Salaries) != 1 {
		t.Fatalf("salary samples = %d, want 1", len(b.Salaries))
	}
	if b.Salaries[0].Min != lo || b.Salaries[0].Max != hi {
		t.Errorf("sample = %+v, want {%v %v}", b.Salaries[0], lo, hi)
	}
}

// ── Key union ──────────────────────────────────────────────────────────────

// A skill present only in the long window must still appear in the union so
// it gets an explicit zero in the short windows.
func TestKeyUnion_CoversAllWindows(t *testing.T) {
	recent := posting("Acme", "Pune", 2, "python")
	old := posting("Beta", "Delhi", 45, "cobol")

	byWindow := map[int]trends.WindowBuckets{
		7:  trends.AggregateWindow([]*model.Posting{recent, old}, 7, testNow),
		60: trends.AggregateWindow([]*model.Posting{recent, old}, 60, testNow),
	}

	keys := trends.KeyUnion(byWindow)
	if len(keys) != 2 {
		t.Fatalf("union size = %d, want 2: %v", len(keys), keys)
	}
	// Sorted by skill name: cobol before python.
	if keys[0].Skill != "cobol" || keys[1].Skill != "python" {
		t.Errorf("union order = %v, want [cobol python]", keys)
	}
}
