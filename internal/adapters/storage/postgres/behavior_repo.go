package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pawtrol-ai/internal/domain/behavior"
)

// BehaviorRepo persiste el log de eventos. seq es BIGSERIAL: la base
// asigna el orden de inserción, que desempata timestamps iguales igual
// que el repo en memoria.
type BehaviorRepo struct {
	db *sql.DB
}

func NewBehaviorRepo(db *sql.DB) *BehaviorRepo {
	return &BehaviorRepo{db: db}
}

const eventColumns = `id, seq, ts, animal_ids, label, confidence, duration_label, source, raw_details`

func (r *BehaviorRepo) Append(ctx context.Context, e behavior.Event) (behavior.Event, error) {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Confidence < 0 {
		e.Confidence = 0
	}
	if e.Confidence > 1 {
		e.Confidence = 1
	}

	ids, err := json.Marshal(e.AnimalIDs)
	if err != nil {
		return behavior.Event{}, fmt.Errorf("marshal animal ids: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO behavior_events (
			id, ts, animal_ids, label, confidence, duration_label, source, raw_details
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING seq
	`,
		e.ID,
		e.Timestamp,
		ids,
		e.Label,
		e.Confidence,
		e.DurationLabel,
		string(e.Source),
		e.RawDetails,
	)
	if err := row.Scan(&e.Seq); err != nil {
		return behavior.Event{}, err
	}
	return e, nil
}

func (r *BehaviorRepo) List(ctx context.Context, f behavior.Filter) ([]behavior.Event, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + eventColumns + ` FROM behavior_events WHERE 1=1`)

	args := []any{}
	argN := 1

	if f.Source != "" {
		sb.WriteString(fmt.Sprintf(" AND source = $%d", argN))
		args = append(args, string(f.Source))
		argN++
	}
	if f.AnimalID != "" {
		sb.WriteString(fmt.Sprintf(" AND animal_ids @> to_jsonb($%d::text)", argN))
		args = append(args, f.AnimalID)
		argN++
	}
	if f.From != nil {
		sb.WriteString(fmt.Sprintf(" AND ts >= $%d", argN))
		args = append(args, *f.From)
		argN++
	}
	if f.To != nil {
		sb.WriteString(fmt.Sprintf(" AND ts < $%d", argN))
		args = append(args, *f.To)
		argN++
	}

	sb.WriteString(" ORDER BY ts ASC, seq ASC")

	if f.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *BehaviorRepo) Latest(ctx context.Context, n int) ([]behavior.Event, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM behavior_events
		ORDER BY ts DESC, seq DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	// de vuelta a orden cronológico
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func scanEvents(rows *sql.Rows) ([]behavior.Event, error) {
	out := make([]behavior.Event, 0)
	for rows.Next() {
		var e behavior.Event
		var ids []byte
		var source string
		if err := rows.Scan(
			&e.ID,
			&e.Seq,
			&e.Timestamp,
			&ids,
			&e.Label,
			&e.Confidence,
			&e.DurationLabel,
			&source,
			&e.RawDetails,
		); err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			if err := json.Unmarshal(ids, &e.AnimalIDs); err != nil {
				return nil, fmt.Errorf("unmarshal animal ids: %w", err)
			}
		}
		e.Source = behavior.Source(source)
		out = append(out, e)
	}
	return out, rows.Err()
}
