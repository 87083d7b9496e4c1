package cameras

import (
	"context"
	"errors"
	"time"
)

// Resultados esperables del throttle. No son fatales: el caller del
// stream decide descartar el frame o bajar el ritmo.
var (
	ErrThrottled = errors.New("frame throttled")
	ErrDisabled  = errors.New("camera disabled")
)

type Repository interface {
	// Upsert reemplaza la config completa keyed por CameraID. Conserva
	// el estado de throttle (lastAcceptedAt) si la cámara ya existía.
	Upsert(ctx context.Context, c Config) error

	GetByID(ctx context.Context, id string) (Config, error)
	List(ctx context.Context) ([]Config, error)

	// TryAcceptFrame es el check-and-set del throttle: atómico por
	// cámara para que dos frames concurrentes no pasen los dos.
	// nil => frame aceptado (y lastAcceptedAt avanzado).
	TryAcceptFrame(ctx context.Context, id string, now time.Time) error
}
