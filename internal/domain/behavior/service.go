package behavior

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Service es el frente del store de eventos. Los caminos de ingesta
// (upload/stream) pasan por aquí después de normalizar; el camino
// manual construye el evento con NormalizeManual.
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

func (s *Service) Append(ctx context.Context, e Event) (Event, error) {
	if e.Source == "" {
		e.Source = SourceManual
	}
	if strings.TrimSpace(e.Label) == "" {
		e.Label = LabelUnknown
	}
	if strings.TrimSpace(e.DurationLabel) == "" {
		e.DurationLabel = DurationNone
	}
	return s.repo.Append(ctx, e)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Event, error) {
	if f.Limit < 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Latest(ctx context.Context, n int) ([]Event, error) {
	if n <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.Latest(ctx, n)
}

// ManualInput es el camino manual/programático: campos explícitos en vez
// de texto del backend.
type ManualInput struct {
	AnimalIDs  []string
	Label      string
	Confidence string // parseado con ParseConfidence; vacío/ilegible => 0.0
	Duration   string
	Details    string
}

func (s *Service) AppendManual(ctx context.Context, in ManualInput) (Event, error) {
	e := Event{
		AnimalIDs:     in.AnimalIDs,
		Label:         strings.TrimSpace(in.Label),
		Confidence:    ParseConfidence(in.Confidence),
		DurationLabel: strings.TrimSpace(in.Duration),
		Source:        SourceManual,
		RawDetails:    in.Details,
	}
	return s.Append(ctx, e)
}
