package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pawtrol-ai/internal/domain/cameras"
)

type CamerasRepo struct {
	db *sql.DB
}

func NewCamerasRepo(db *sql.DB) *CamerasRepo {
	return &CamerasRepo{db: db}
}

func (r *CamerasRepo) Upsert(ctx context.Context, c cameras.Config) error {
	// reemplazo completo keyed por camera_id; last_accepted_at se conserva
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO camera_configs (
			camera_id, name, enabled, frame_rate_hz, last_configured_at
		) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (camera_id) DO UPDATE SET
			name = EXCLUDED.name,
			enabled = EXCLUDED.enabled,
			frame_rate_hz = EXCLUDED.frame_rate_hz,
			last_configured_at = EXCLUDED.last_configured_at
	`,
		c.CameraID,
		c.Name,
		c.Enabled,
		c.FrameRateHz,
		c.LastConfiguredAt,
	)
	return err
}

func (r *CamerasRepo) GetByID(ctx context.Context, id string) (cameras.Config, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cameras.Config{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT camera_id, name, enabled, frame_rate_hz, last_configured_at
		FROM camera_configs
		WHERE camera_id = $1
	`, id)

	return scanCamera(row)
}

func (r *CamerasRepo) List(ctx context.Context) ([]cameras.Config, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT camera_id, name, enabled, frame_rate_hz, last_configured_at
		FROM camera_configs
		ORDER BY camera_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cameras.Config, 0)
	for rows.Next() {
		c, err := scanCamera(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TryAcceptFrame hace el check-and-set en una transacción con lock de
// fila (FOR UPDATE): serializa por cámara, no globalmente.
func (r *CamerasRepo) TryAcceptFrame(ctx context.Context, id string, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT enabled, frame_rate_hz, last_accepted_at
		FROM camera_configs
		WHERE camera_id = $1
		FOR UPDATE
	`, id)

	var (
		enabled      bool
		rate         float64
		lastAccepted sql.NullTime
	)
	if err := row.Scan(&enabled, &rate, &lastAccepted); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if !enabled {
		return cameras.ErrDisabled
	}

	min := cameras.Config{FrameRateHz: rate}.MinInterval()
	if lastAccepted.Valid && now.Sub(lastAccepted.Time) < min {
		return cameras.ErrThrottled
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE camera_configs SET last_accepted_at = $2 WHERE camera_id = $1
	`, id, now); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCamera(row rowScanner) (cameras.Config, error) {
	var c cameras.Config
	if err := row.Scan(
		&c.CameraID,
		&c.Name,
		&c.Enabled,
		&c.FrameRateHz,
		&c.LastConfiguredAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return cameras.Config{}, ErrNotFound
		}
		return cameras.Config{}, err
	}
	return c, nil
}
