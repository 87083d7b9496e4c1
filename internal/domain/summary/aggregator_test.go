package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mem "pawtrol-ai/internal/adapters/storage/memory"
	"pawtrol-ai/internal/domain/behavior"
	"pawtrol-ai/internal/ports/vision"
)

type stubAnalyzer struct {
	summary  string
	err      error
	gotNotes []string
	summoned int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, image []byte, v vision.PromptVariant) (string, error) {
	return "", errors.New("not used")
}

func (s *stubAnalyzer) Summarize(ctx context.Context, notes []string) (string, error) {
	s.summoned++
	s.gotNotes = notes
	return s.summary, s.err
}

func seedDay(t *testing.T, svc *behavior.Service, day time.Time) {
	t.Helper()
	ctx := context.Background()

	events := []behavior.Event{
		{Timestamp: day.Add(9 * time.Hour), AnimalIDs: []string{"max"}, Label: "running", Confidence: 0.9, RawDetails: "dog running"},
		{Timestamp: day.Add(10 * time.Hour), AnimalIDs: []string{"max"}, Label: "sitting", Confidence: 0.8, RawDetails: "dog sitting"},
		{Timestamp: day.Add(11 * time.Hour), AnimalIDs: []string{"luna"}, Label: "running", Confidence: 0.7, RawDetails: "cat running"},
		{Timestamp: day.Add(36 * time.Hour), AnimalIDs: []string{"max"}, Label: "eating", Confidence: 0.9, RawDetails: "next day"},
	}
	for _, e := range events {
		if _, err := svc.Append(ctx, e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestAggregator_DailyCounts(t *testing.T) {
	svc := behavior.NewService(mem.NewBehaviorRepo())
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedDay(t, svc, day)

	agg := NewAggregator(svc, nil, nil)

	s, err := agg.Daily(context.Background(), day)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}

	if s.EventCount != 3 {
		t.Fatalf("expected 3 events on the day, got %d", s.EventCount)
	}
	if s.PerAnimal["max"] != 2 || s.PerAnimal["luna"] != 1 {
		t.Fatalf("unexpected per-animal counts: %+v", s.PerAnimal)
	}
	if s.PerLabel["running"] != 2 || s.PerLabel["sitting"] != 1 {
		t.Fatalf("unexpected per-label counts: %+v", s.PerLabel)
	}
	if s.Narrative != "" {
		t.Fatalf("no analyzer => empty narrative, got %q", s.Narrative)
	}
}

func TestAggregator_EmptyDayIsNotAnError(t *testing.T) {
	svc := behavior.NewService(mem.NewBehaviorRepo())
	analyzer := &stubAnalyzer{summary: "should not be called"}
	agg := NewAggregator(svc, analyzer, nil)

	s, err := agg.Daily(context.Background(), time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("empty day must not fail: %v", err)
	}
	if s.EventCount != 0 {
		t.Fatalf("expected 0 events, got %d", s.EventCount)
	}
	if s.Narrative != "" {
		t.Fatalf("expected empty narrative, got %q", s.Narrative)
	}
	if analyzer.summoned != 0 {
		t.Fatalf("analyzer must not be called for an empty day")
	}
}

func TestAggregator_NarrativeFromAnalyzer(t *testing.T) {
	svc := behavior.NewService(mem.NewBehaviorRepo())
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedDay(t, svc, day)

	analyzer := &stubAnalyzer{summary: "A lively day for Max and Luna."}
	agg := NewAggregator(svc, analyzer, nil)

	s, err := agg.Daily(context.Background(), day)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if s.Narrative != "A lively day for Max and Luna." {
		t.Fatalf("unexpected narrative: %q", s.Narrative)
	}
	for _, n := range analyzer.gotNotes {
		if strings.Contains(n, "next day") {
			t.Fatalf("narrative notes must only include the requested day")
		}
	}
}

func TestAggregator_NarrativeFailureDegrades(t *testing.T) {
	svc := behavior.NewService(mem.NewBehaviorRepo())
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedDay(t, svc, day)

	analyzer := &stubAnalyzer{err: errors.New("backend down")}
	agg := NewAggregator(svc, analyzer, nil)

	s, err := agg.Daily(context.Background(), day)
	if err != nil {
		t.Fatalf("narrative failure must not fail the summary: %v", err)
	}
	if s.EventCount != 3 || s.Narrative != "" {
		t.Fatalf("expected counts with empty narrative, got %+v", s)
	}
}

func TestAggregator_NarrativeNotesAreBounded(t *testing.T) {
	svc := behavior.NewService(mem.NewBehaviorRepo())
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	ctx := context.Background()
	for i := 0; i < maxNarrativeNotes+15; i++ {
		_, _ = svc.Append(ctx, behavior.Event{
			Timestamp:  day.Add(time.Duration(i) * time.Minute),
			Label:      "walking",
			Confidence: 0.9,
			RawDetails: "note",
		})
	}

	analyzer := &stubAnalyzer{summary: "ok"}
	agg := NewAggregator(svc, analyzer, nil)

	if _, err := agg.Daily(ctx, day); err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(analyzer.gotNotes) > maxNarrativeNotes {
		t.Fatalf("notes must be capped at %d, got %d", maxNarrativeNotes, len(analyzer.gotNotes))
	}
}
