package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"schemadesk/internal/model"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

const stateVersion = 1

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI read while a CLI command in another terminal writes;
	// busy_timeout avoids "database is locked" when they race.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// LoadSQLite loads the workspace snapshot, creating the database on first use.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := &DB{Version: stateVersion, Models: []model.Model{}}

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = 'version'`).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, err
	default:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			out.Version = n
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT id, name, created_at_unixms, updated_at_unixms FROM models ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	byID := map[string]int{}
	for rows.Next() {
		var m model.Model
		var created, updated int64
		if err := rows.Scan(&m.ID, &m.Name, &created, &updated); err != nil {
			rows.Close()
			return nil, err
		}
		m.CreatedAt = time.UnixMilli(created).UTC()
		m.UpdatedAt = time.UnixMilli(updated).UTC()
		m.Properties = []model.Property{}
		byID[m.ID] = len(out.Models)
		out.Models = append(out.Models, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = db.QueryContext(ctx, `SELECT id, model_id, name, data_type, is_key FROM properties ORDER BY model_id, position, id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p model.Property
		var modelID string
		var isKey int
		if err := rows.Scan(&p.ID, &modelID, &p.Name, &p.DataType, &isKey); err != nil {
			rows.Close()
			return nil, err
		}
		p.IsKey = isKey != 0
		i, ok := byID[modelID]
		if !ok {
			continue
		}
		out.Models[i].Properties = append(out.Models[i].Properties, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	retired, err := db.QueryContext(ctx, `SELECT id FROM retired_ids ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer retired.Close()
	for retired.Next() {
		var id string
		if err := retired.Scan(&id); err != nil {
			return nil, err
		}
		out.RetiredIDs = append(out.RetiredIDs, id)
	}
	return out, retired.Err()
}

// SaveSQLite writes the whole snapshot in one transaction (replace-all).
// events are appended in the same transaction: either both land or neither does.
func (s Store) SaveSQLite(ctx context.Context, st *DB, events ...PendingEvent) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	version := st.Version
	if version == 0 {
		version = stateVersion
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES('version', ?)`, strconv.Itoa(version)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM properties`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM models`); err != nil {
		return err
	}

	now := time.Now().UTC()
	for mi, m := range st.Models {
		created := m.CreatedAt
		if created.IsZero() {
			created = now
		}
		updated := m.UpdatedAt
		if updated.IsZero() {
			updated = created
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO models(id, name, position, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			m.ID, m.Name, mi, created.UnixMilli(), updated.UnixMilli()); err != nil {
			return fmt.Errorf("insert model %s: %w", m.ID, err)
		}
		for pi, p := range m.Properties {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO properties(id, model_id, name, data_type, is_key, position) VALUES(?, ?, ?, ?, ?, ?)`,
				p.ID, m.ID, p.Name, p.DataType, boolToInt(p.IsKey), pi); err != nil {
				return fmt.Errorf("insert property %s: %w", p.ID, err)
			}
		}
	}

	for _, id := range st.RetiredIDs {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO retired_ids(id) VALUES(?)`, id); err != nil {
			return err
		}
	}

	for _, ev := range events {
		if err := insertEvent(ctx, tx, ev); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
