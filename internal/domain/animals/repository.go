package animals

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	List(ctx context.Context) ([]Animal, error)

	// SetLastActivity reemplaza solo el campo LastActivity (atómico por id).
	SetLastActivity(ctx context.Context, id, activity string) error
}
