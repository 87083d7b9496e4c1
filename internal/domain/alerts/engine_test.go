package alerts

import (
	"context"
	"testing"
	"time"

	"pawtrol-ai/internal/domain/animals"
	"pawtrol-ai/internal/domain/behavior"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testEventRepo struct {
	events []behavior.Event
	seq    uint64
}

func (r *testEventRepo) Append(ctx context.Context, e behavior.Event) (behavior.Event, error) {
	r.seq++
	e.Seq = r.seq
	if e.ID == "" {
		e.ID = "ev-" + string(rune('0'+r.seq))
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	r.events = append(r.events, e)
	return e, nil
}

func (r *testEventRepo) List(ctx context.Context, f behavior.Filter) ([]behavior.Event, error) {
	return r.events, nil
}

func (r *testEventRepo) Latest(ctx context.Context, n int) ([]behavior.Event, error) {
	if len(r.events) > n {
		return r.events[len(r.events)-n:], nil
	}
	return r.events, nil
}

type testAnimalRepo struct {
	byID map[string]animals.Animal
}

func (r *testAnimalRepo) Create(ctx context.Context, a animals.Animal) error {
	r.byID[a.ID] = a
	return nil
}

func (r *testAnimalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	return r.byID[id], nil
}

func (r *testAnimalRepo) List(ctx context.Context) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *testAnimalRepo) SetLastActivity(ctx context.Context, id, activity string) error {
	a := r.byID[id]
	a.LastActivity = activity
	r.byID[id] = a
	return nil
}

// -------------------------
// Tests
// -------------------------

func newTestEngine(cfg Config) (*Engine, *testEventRepo, *testAnimalRepo) {
	evRepo := &testEventRepo{}
	anRepo := &testAnimalRepo{byID: map[string]animals.Animal{}}
	return NewEngine(behavior.NewService(evRepo), animals.NewService(anRepo), cfg), evRepo, anRepo
}

func TestEngine_LowConfidenceAlert(t *testing.T) {
	engine, evRepo, _ := newTestEngine(Config{
		LowConfidenceThreshold: 0.5,
		InactivityWindow:       0, // apagar regla de inactividad
		Window:                 100,
	})

	ctx := context.Background()
	low, _ := evRepo.Append(ctx, behavior.Event{Label: "walking", Confidence: 0.2})
	_, _ = evRepo.Append(ctx, behavior.Event{Label: "sitting", Confidence: 0.9})

	alerts, err := engine.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected exactly 1 alert, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].TriggeredBy != low.ID {
		t.Fatalf("alert must point at the low-confidence event")
	}
	if alerts[0].Severity != SeverityWarning {
		t.Fatalf("expected warning severity, got %q", alerts[0].Severity)
	}
}

func TestEngine_UrgentBehaviorAlert(t *testing.T) {
	engine, evRepo, _ := newTestEngine(Config{
		LowConfidenceThreshold: 0.5,
		UrgentLabels:           []string{"aggressive", "distressed"},
		InactivityWindow:       0,
		Window:                 100,
	})

	ctx := context.Background()
	ev, _ := evRepo.Append(ctx, behavior.Event{
		Label:      "walking",
		Confidence: 0.95,
		RawDetails: "The dog appears distressed and is pacing near the gate.",
	})

	alerts, _ := engine.Current(ctx)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 urgent alert, got %d", len(alerts))
	}
	if alerts[0].Severity != SeverityCritical || alerts[0].TriggeredBy != ev.ID {
		t.Fatalf("unexpected alert: %+v", alerts[0])
	}
}

func TestEngine_FirstMatchWinsPerEvent(t *testing.T) {
	engine, evRepo, _ := newTestEngine(Config{
		LowConfidenceThreshold: 0.5,
		UrgentLabels:           []string{"aggressive"},
		InactivityWindow:       0,
		Window:                 100,
	})

	ctx := context.Background()
	// matchea las dos reglas; solo debe alertar una vez
	_, _ = evRepo.Append(ctx, behavior.Event{Label: "aggressive", Confidence: 0.1})

	alerts, _ := engine.Current(ctx)
	if len(alerts) != 1 {
		t.Fatalf("one event must produce at most one alert, got %d", len(alerts))
	}
	if alerts[0].Severity != SeverityWarning {
		t.Fatalf("low-confidence rule is evaluated first, got %q", alerts[0].Severity)
	}
}

func TestEngine_InactivityAlert(t *testing.T) {
	engine, evRepo, anRepo := newTestEngine(Config{
		LowConfidenceThreshold: 0.5,
		InactivityWindow:       24 * time.Hour,
		Window:                 100,
	})

	now := time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }

	ctx := context.Background()
	_ = anRepo.Create(ctx, animals.Animal{ID: "max", Name: "Max", CreatedAt: now.Add(-72 * time.Hour)})
	_ = anRepo.Create(ctx, animals.Animal{ID: "luna", Name: "Luna", CreatedAt: now.Add(-72 * time.Hour)})
	_ = anRepo.Create(ctx, animals.Animal{ID: "new", Name: "Rex", CreatedAt: now.Add(-time.Hour)}) // gracia

	// Luna tiene actividad fresca; Max no
	_, _ = evRepo.Append(ctx, behavior.Event{
		AnimalIDs:  []string{"luna"},
		Label:      "eating",
		Confidence: 0.9,
		Timestamp:  now.Add(-time.Hour),
	})

	alerts, _ := engine.Current(ctx)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 inactivity alert, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].TriggeredBy != "max" || alerts[0].Severity != SeverityInfo {
		t.Fatalf("unexpected alert: %+v", alerts[0])
	}
}

func TestEngine_NoAlertsOnHealthyWindow(t *testing.T) {
	engine, evRepo, _ := newTestEngine(Config{
		LowConfidenceThreshold: 0.5,
		UrgentLabels:           []string{"aggressive"},
		InactivityWindow:       0,
		Window:                 100,
	})

	ctx := context.Background()
	_, _ = evRepo.Append(ctx, behavior.Event{Label: "sitting", Confidence: 0.9})

	alerts, err := engine.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %+v", alerts)
	}
}
