package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"schemadesk/internal/model"

	"github.com/google/uuid"
)

// PendingEvent is an event-log entry written together with a snapshot by Save.
type PendingEvent struct {
	Type     string
	EntityID string
	Payload  any
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEvent(ctx context.Context, db execer, ev PendingEvent) error {
	payload := ev.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("event %s payload: %w", ev.Type, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO events(id, ts_unixms, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?)`,
		uuid.NewString(), time.Now().UTC().UnixMilli(), ev.Type, ev.EntityID, string(raw))
	return err
}

// AppendEvent records one event on its own, outside any snapshot save.
func (s Store) AppendEvent(ctx context.Context, typ, entityID string, payload any) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return insertEvent(ctx, db, PendingEvent{Type: typ, EntityID: entityID, Payload: payload})
}

// ReadEvents returns the most recent limit events, oldest-first (limit <= 0 = all).
func (s Store) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, ts_unixms, type, entity_id, payload_json FROM events ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var ts int64
		var payload string
		if err := rows.Scan(&ev.ID, &ts, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ts).UTC()
		var p any
		if err := json.Unmarshal([]byte(payload), &p); err == nil {
			ev.Payload = p
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}
