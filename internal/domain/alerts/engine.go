package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pawtrol-ai/internal/domain/animals"
	"pawtrol-ai/internal/domain/behavior"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert es derivada, nunca persistida: cambiar umbrales cambia
// retroactivamente qué eventos alertan, y eso es intencional (la
// política de alertas es una vista sobre el log, no un hecho).
type Alert struct {
	TriggeredBy string // event id, o animal id en alertas de inactividad
	Severity    Severity
	Message     string
	Timestamp   time.Time
}

type Config struct {
	// LowConfidenceThreshold: eventos con confianza por debajo alertan.
	LowConfidenceThreshold float64

	// UrgentLabels: comportamientos que alertan por sí solos.
	UrgentLabels []string

	// InactivityWindow: un animal sin eventos en esta ventana alerta.
	// Animales registrados hace menos que la ventana no alertan todavía.
	InactivityWindow time.Duration

	// Window: cuántos eventos recientes del store se evalúan.
	Window int
}

func DefaultConfig() Config {
	return Config{
		LowConfidenceThreshold: 0.5,
		UrgentLabels:           []string{"aggressive", "distressed", "limping", "injured"},
		InactivityWindow:       24 * time.Hour,
		Window:                 200,
	}
}

// Engine deriva alertas del log de eventos. Sin estado propio: cada
// Current re-evalúa la ventana reciente del store.
type Engine struct {
	events  *behavior.Service
	animals *animals.Service
	cfg     Config
	now     func() time.Time
}

func NewEngine(events *behavior.Service, animalsSvc *animals.Service, cfg Config) *Engine {
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	return &Engine{
		events:  events,
		animals: animalsSvc,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (e *Engine) Current(ctx context.Context) ([]Alert, error) {
	recent, err := e.events.Latest(ctx, e.cfg.Window)
	if err != nil {
		return nil, err
	}

	out := make([]Alert, 0)

	// Reglas por evento, en orden; la primera que matchea gana para no
	// duplicar alertas del mismo evento.
	for _, ev := range recent {
		if a, ok := e.lowConfidence(ev); ok {
			out = append(out, a)
			continue
		}
		if a, ok := e.urgentBehavior(ev); ok {
			out = append(out, a)
		}
	}

	inactive, err := e.inactivity(ctx, recent)
	if err != nil {
		return nil, err
	}
	out = append(out, inactive...)

	return out, nil
}

func (e *Engine) lowConfidence(ev behavior.Event) (Alert, bool) {
	if ev.Confidence >= e.cfg.LowConfidenceThreshold {
		return Alert{}, false
	}
	return Alert{
		TriggeredBy: ev.ID,
		Severity:    SeverityWarning,
		Message:     fmt.Sprintf("low-confidence detection (%.2f): %s", ev.Confidence, ev.Label),
		Timestamp:   ev.Timestamp,
	}, true
}

func (e *Engine) urgentBehavior(ev behavior.Event) (Alert, bool) {
	label := strings.ToLower(ev.Label)
	details := strings.ToLower(ev.RawDetails)
	for _, urgent := range e.cfg.UrgentLabels {
		if label == urgent || strings.Contains(details, urgent) {
			return Alert{
				TriggeredBy: ev.ID,
				Severity:    SeverityCritical,
				Message:     fmt.Sprintf("urgent behavior detected: %s", urgent),
				Timestamp:   ev.Timestamp,
			}, true
		}
	}
	return Alert{}, false
}

func (e *Engine) inactivity(ctx context.Context, recent []behavior.Event) ([]Alert, error) {
	if e.cfg.InactivityWindow <= 0 {
		return nil, nil
	}

	all, err := e.animals.List(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now()
	cutoff := now.Add(-e.cfg.InactivityWindow)

	lastSeen := map[string]time.Time{}
	for _, ev := range recent {
		for _, id := range ev.AnimalIDs {
			if ev.Timestamp.After(lastSeen[id]) {
				lastSeen[id] = ev.Timestamp
			}
		}
	}

	out := make([]Alert, 0)
	for _, a := range all {
		// período de gracia para recién registrados
		if a.CreatedAt.After(cutoff) {
			continue
		}
		if seen, ok := lastSeen[a.ID]; ok && seen.After(cutoff) {
			continue
		}
		out = append(out, Alert{
			TriggeredBy: a.ID,
			Severity:    SeverityInfo,
			Message:     fmt.Sprintf("no activity observed for %s in the last %s", a.Name, e.cfg.InactivityWindow),
			Timestamp:   now,
		})
	}
	return out, nil
}
