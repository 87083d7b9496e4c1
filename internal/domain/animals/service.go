package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
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

type RegisterInput struct {
	Name string
	Type string
	Age  int
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Animal, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Type) == "" {
		return Animal{}, ErrInvalidInput
	}
	if in.Age < 0 {
		return Animal{}, ErrInvalidInput
	}

	now := s.now()
	a := Animal{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Type:         strings.TrimSpace(in.Type),
		Age:          in.Age,
		LastActivity: LastActivityNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Animal, error) {
	return s.repo.List(ctx)
}

// TouchActivity actualiza LastActivity tras un evento asociado.
// Best-effort y last-write-wins: dos eventos concurrentes pueden
// intercalarse, pero cada reemplazo es atómico en el repo.
func (s *Service) TouchActivity(ctx context.Context, id, activity string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return ErrInvalidInput
	}
	return s.repo.SetLastActivity(ctx, id, activity)
}
