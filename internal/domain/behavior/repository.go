package behavior

import (
	"context"
	"time"
)

// Filter acota List. El rango temporal es [From, To): From inclusivo,
// To exclusivo, para que los cortes por día no se pisen.
type Filter struct {
	Source   Source
	AnimalID string
	From     *time.Time
	To       *time.Time
	Limit    int // <= 0 => sin límite
}

// Repository es el store append-only de eventos.
type Repository interface {
	// Append asigna id, seq y timestamp (si vienen vacíos), clampa la
	// confianza a [0,1] y guarda. Nunca rechaza por contenido.
	Append(ctx context.Context, e Event) (Event, error)

	// List devuelve eventos ordenados por timestamp asc; empates por
	// orden de inserción.
	List(ctx context.Context, f Filter) ([]Event, error)

	// Latest devuelve los n eventos más recientes, en orden cronológico.
	Latest(ctx context.Context, n int) ([]Event, error)
}
