package trends_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/trends"
)

// ── In-memory stores ───────────────────────────────────────────────────────

type fakePostings struct {
	postings []*model.Posting
	failRead bool
}

func (f *fakePostings) TaggedSince(_ context.Context, since time.Time) ([]*model.Posting, error) {
	if f.failRead {
		return nil, fmt.Errorf("connection refused")
	}
	var out []*model.Posting
	for _, p := range f.postings {
		if len(p.Skills) > 0 && !model.EffectiveDate(p).Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostings) ScrapedSince(_ context.Context, since time.Time) ([]*model.Posting, error) {
	var out []*model.Posting
	for _, p := range f.postings {
		if !p.ScrapedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostings) CountAll(context.Context) (int, error) { return len(f.postings), nil }

type fakeTrends struct {
	records  map[model.SkillKey]*model.SkillTrend
	failKeys map[model.SkillKey]bool
}

func newFakeTrends() *fakeTrends {
	return &fakeTrends{
		records:  make(map[model.SkillKey]*model.SkillTrend),
		failKeys: make(map[model.SkillKey]bool),
	}
}

func (f *fakeTrends) Upsert(_ context.Context, t *model.SkillTrend) error {
	if f.failKeys[t.Key()] {
		return fmt.Errorf("write refused")
	}
	f.records[t.Key()] = t
	return nil
}

func (f *fakeTrends) Count(context.Context) (int, error) { return len(f.records), nil }

type fakeMarket struct{ summaries map[time.Time]*model.MarketSummary }

func newFakeMarket() *fakeMarket {
	return &fakeMarket{summaries: make(map[time.Time]*model.MarketSummary)}
}

func (f *fakeMarket) Upsert(_ context.Context, s *model.MarketSummary) error {
	f.summaries[s.Date] = s
	return nil
}

// ── Batch behaviour ────────────────────────────────────────────────────────

func TestRunAt_UpsertsEveryObservedKey(t *testing.T) {
	postings := &fakePostings{postings: []*model.Posting{
		posting("Acme", "Pune", 2, "python"),
		posting("Beta", "Delhi", 45, "cobol"),
	}}
	trendStore := newFakeTrends()
	market := newFakeMarket()

	calc := trends.NewCalculator(trends.DefaultConfig(), postings, trendStore, market, nil)
	stats, err := calc.RunAt(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunAt error: %v", err)
	}

	if stats.SkillKeys != 2 || stats.SkillsUpdated != 2 || stats.WriteFailures != 0 {
		t.Errorf("stats = %+v, want 2 keys, 2 updated, 0 failures", stats)
	}
	if !stats.SummaryWritten {
		t.Error("summary was not written")
	}
	if len(market.summaries) != 1 {
		t.Errorf("summaries written = %d, want 1", len(market.summaries))
	}
}

// A read failure during window aggregation is fatal — partial windows would
// corrupt every growth rate.
func TestRunAt_WindowReadFailureAborts(t *testing.T) {
	calc := trends.NewCalculator(trends.DefaultConfig(),
		&fakePostings{failRead: true}, newFakeTrends(), newFakeMarket(), nil)

	if _, err := calc.RunAt(context.Background(), testNow); err == nil {
		t.Fatal("RunAt should fail when a window read fails")
	}
}

// A write failure on one key must not block the remaining keys.
func TestRunAt_WriteFailureIsIsolated(t *testing.T) {
	postings := &fakePostings{postings: []*model.Posting{
		posting("Acme", "Pune", 2, "python"),
		posting("Beta", "Delhi", 3, "go"),
	}}
	trendStore := newFakeTrends()
	trendStore.failKeys[model.SkillKey{Skill: "go", Category: model.CategoryProgramming}] = true

	calc := trends.NewCalculator(trends.DefaultConfig(), postings, trendStore, newFakeMarket(), nil)
	stats, err := calc.RunAt(context.Background(), testNow)
	if err != nil {
		t.Fatalf("RunAt error: %v", err)
	}

	if stats.WriteFailures != 1 || stats.SkillsUpdated != 1 {
		t.Errorf("stats = %+v, want 1 failure and 1 update", stats)
	}
	if _, ok := trendStore.records[model.SkillKey{Skill: "python", Category: model.CategoryProgramming}]; !ok {
		t.Error("python record missing — the failed key blocked later keys")
	}
}

// ── Idempotence ────────────────────────────────────────────────────────────

// Two runs over an unchanged posting set must produce identical records.
func TestRunAt_Idempotent(t *testing.T) {
	lo, hi := 400000.0, 900000.0
	p := posting("Acme", "Pune", 2, "python", "go")
	p.Salary = model.SalaryRange{Min: &lo, Max: &hi}
	postings := &fakePostings{postings: []*model.Posting{
		p,
		posting("Beta", "Delhi", 20, "python"),
		posting("Gamma", "Mumbai", 50, "cobol"),
	}}

	first := newFakeTrends()
	calc := trends.NewCalculator(trends.DefaultConfig(), postings, first, newFakeMarket(), nil)
	if _, err := calc.RunAt(context.Background(), testNow); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := newFakeTrends()
	calc = trends.NewCalculator(trends.DefaultConfig(), postings, second, newFakeMarket(), nil)
	if _, err := calc.RunAt(context.Background(), testNow); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(first.records) != len(second.records) {
		t.Fatalf("record counts differ: %d vs %d", len(first.records), len(second.records))
	}
	for key, a := range first.records {
		b, ok := second.records[key]
		if !ok {
			t.Fatalf("key %v missing from second run", key)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("records for %v differ:\n first: %+v\nsecond: %+v", key, a, b)
		}
	}
}
