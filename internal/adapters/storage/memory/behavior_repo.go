package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pawtrol-ai/internal/domain/behavior"
)

// behaviorRepo es el store append-only en memoria. El mutex alrededor de
// la asignación de seq/timestamp es el único punto de serialización que
// el pipeline necesita: garantiza orden total y cero writes perdidos.
type behaviorRepo struct {
	mu     sync.RWMutex
	events []behavior.Event
	seq    uint64
	lastTS time.Time
	now    func() time.Time
}

func NewBehaviorRepo() behavior.Repository {
	return &behaviorRepo{
		now: time.Now,
	}
}

func (r *behaviorRepo) Append(ctx context.Context, e behavior.Event) (behavior.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}

	r.seq++
	e.Seq = r.seq

	// timestamp monótono no-decreciente respecto al orden de inserción
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now()
	}
	if e.Timestamp.Before(r.lastTS) {
		e.Timestamp = r.lastTS
	}
	r.lastTS = e.Timestamp

	// invariante estructural: clamp, nunca rechazo
	if e.Confidence < 0 {
		e.Confidence = 0
	}
	if e.Confidence > 1 {
		e.Confidence = 1
	}

	// copia propia del slice: el caller no puede mutar lo guardado
	e.AnimalIDs = append([]string(nil), e.AnimalIDs...)

	r.events = append(r.events, e)
	return copyEvent(e), nil
}

func (r *behaviorRepo) List(ctx context.Context, f behavior.Filter) ([]behavior.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]behavior.Event, 0)
	for _, e := range r.events {
		if f.Source != "" && e.Source != f.Source {
			continue
		}
		if f.AnimalID != "" && !references(e, f.AnimalID) {
			continue
		}
		if f.From != nil && e.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.Timestamp.Before(*f.To) {
			continue
		}
		out = append(out, copyEvent(e))
	}

	sortEvents(out)

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *behaviorRepo) Latest(ctx context.Context, n int) ([]behavior.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]behavior.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, copyEvent(e))
	}
	sortEvents(out)

	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

// Orden canónico de lectura: timestamp asc, empates por inserción.
func sortEvents(evs []behavior.Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].Timestamp.Equal(evs[j].Timestamp) {
			return evs[i].Seq < evs[j].Seq
		}
		return evs[i].Timestamp.Before(evs[j].Timestamp)
	})
}

func references(e behavior.Event, animalID string) bool {
	for _, id := range e.AnimalIDs {
		if id == animalID {
			return true
		}
	}
	return false
}

func copyEvent(e behavior.Event) behavior.Event {
	e.AnimalIDs = append([]string(nil), e.AnimalIDs...)
	return e
}
