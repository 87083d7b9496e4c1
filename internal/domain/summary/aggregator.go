package summary

import (
	"context"
	"time"

	"pawtrol-ai/internal/domain/behavior"
	"pawtrol-ai/internal/platform/logger"
	"pawtrol-ai/internal/ports/vision"
)

// maxNarrativeNotes acota cuánto texto crudo se manda al backend para
// la narrativa (los rawDetails crecen sin límite durante el día).
const maxNarrativeNotes = 20

type DailySummary struct {
	Date       time.Time
	EventCount int

	// Conteo de eventos por animal referenciado y por comportamiento.
	PerAnimal map[string]int
	PerLabel  map[string]int

	// Narrative es opcional: vacía si no hay analyzer configurado, si
	// el día no tiene eventos o si el backend falla.
	Narrative string
}

type Aggregator struct {
	events   *behavior.Service
	analyzer vision.Analyzer // puede ser nil
	log      logger.Logger
	now      func() time.Time
}

func NewAggregator(events *behavior.Service, analyzer vision.Analyzer, log logger.Logger) *Aggregator {
	return &Aggregator{
		events:   events,
		analyzer: analyzer,
		log:      log,
		now:      time.Now,
	}
}

// Daily reduce los eventos del día (UTC) a un digest. Cero eventos
// devuelve un resumen vacío bien formado, no un error.
func (a *Aggregator) Daily(ctx context.Context, date time.Time) (DailySummary, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	from := day
	to := day.Add(24 * time.Hour)

	items, err := a.events.List(ctx, behavior.Filter{From: &from, To: &to})
	if err != nil {
		return DailySummary{}, err
	}

	out := DailySummary{
		Date:      day,
		PerAnimal: map[string]int{},
		PerLabel:  map[string]int{},
	}

	for _, e := range items {
		out.EventCount++
		out.PerLabel[e.Label]++
		for _, id := range e.AnimalIDs {
			out.PerAnimal[id]++
		}
	}

	if out.EventCount > 0 {
		out.Narrative = a.narrative(ctx, items)
	}
	return out, nil
}

func (a *Aggregator) narrative(ctx context.Context, items []behavior.Event) string {
	if a.analyzer == nil {
		return ""
	}

	// los más recientes, acotados
	if len(items) > maxNarrativeNotes {
		items = items[len(items)-maxNarrativeNotes:]
	}
	notes := make([]string, 0, len(items))
	for _, e := range items {
		if e.RawDetails != "" {
			notes = append(notes, e.RawDetails)
		}
	}
	if len(notes) == 0 {
		return ""
	}

	text, err := a.analyzer.Summarize(ctx, notes)
	if err != nil {
		// la narrativa es opcional: el resumen sale igual, sin texto
		if a.log != nil {
			a.log.Warn("daily narrative failed", map[string]any{"error": err.Error()})
		}
		return ""
	}
	return text
}
