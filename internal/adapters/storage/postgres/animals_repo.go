package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pawtrol-ai/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (
			id, name, type, age,
			last_activity,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		a.ID,
		a.Name,
		a.Type,
		a.Age,
		a.LastActivity,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, age, last_activity, created_at, updated_at
		FROM animals
		WHERE id = $1
	`, id)

	var a animals.Animal
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Type,
		&a.Age,
		&a.LastActivity,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, age, last_activity, created_at, updated_at
		FROM animals
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		var a animals.Animal
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Type,
			&a.Age,
			&a.LastActivity,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetLastActivity es un UPDATE de un solo campo: atómico por fila.
func (r *AnimalsRepo) SetLastActivity(ctx context.Context, id, activity string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET last_activity = $2, updated_at = now()
		WHERE id = $1
	`, id, activity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
