package cameras

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// UpsertInput usa punteros para distinguir "omitido" de "cero":
// los campos omitidos toman defaults (enabled=true, frameRate=3Hz).
type UpsertInput struct {
	CameraID    string
	Name        string
	Enabled     *bool
	FrameRateHz *float64
}

func (s *Service) Upsert(ctx context.Context, in UpsertInput) (Config, error) {
	id := strings.TrimSpace(in.CameraID)
	if id == "" {
		return Config{}, ErrInvalidInput
	}

	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	rate := DefaultFrameRateHz
	if in.FrameRateHz != nil {
		if *in.FrameRateHz <= 0 {
			return Config{}, ErrInvalidInput
		}
		rate = *in.FrameRateHz
	}

	c := Config{
		CameraID:         id,
		Name:             strings.TrimSpace(in.Name),
		Enabled:          enabled,
		FrameRateHz:      rate,
		LastConfiguredAt: s.now(),
	}

	if err := s.repo.Upsert(ctx, c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Config, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Config{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Config, error) {
	return s.repo.List(ctx)
}

// ShouldAcceptFrame decide si un frame del stream entra al pipeline.
// Es el único back-pressure aguas arriba de la llamada de visión, que
// es cara: el exceso se corta acá, en el borde de la ingesta.
func (s *Service) ShouldAcceptFrame(ctx context.Context, cameraID string) error {
	cameraID = strings.TrimSpace(cameraID)
	if cameraID == "" {
		return ErrInvalidInput
	}
	return s.repo.TryAcceptFrame(ctx, cameraID, s.now())
}
