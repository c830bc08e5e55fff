package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Tiliavir/babytime/internal/model"
)

// SQLiteStore keeps the same JSON documents as FileStore in a SQLite
// database: one row per baby and one row per baby and day.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and migrates) the database at dbPath. Use ":memory:"
// for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
			return nil, fmt.Errorf("storage error creating directories: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS babies (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS days (
		baby_id TEXT NOT NULL,
		date TEXT NOT NULL,
		doc TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (baby_id, date)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const selectedBabyKey = "selected_baby"

// Babies returns every stored profile, oldest first.
func (s *SQLiteStore) Babies(ctx context.Context) ([]model.Baby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT doc FROM babies")
	if err != nil {
		return nil, fmt.Errorf("query babies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	babies := []model.Baby{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan baby: %w", err)
		}
		var b model.Baby
		if err := json.Unmarshal([]byte(doc), &b); err != nil {
			return nil, fmt.Errorf("unmarshal baby: %w", err)
		}
		babies = append(babies, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate babies: %w", err)
	}
	sortBabies(babies)
	return babies, nil
}

// SaveBaby upserts a profile.
func (s *SQLiteStore) SaveBaby(ctx context.Context, baby model.Baby) error {
	if err := validBabyID(baby.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := json.Marshal(baby)
	if err != nil {
		return fmt.Errorf("marshal baby: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO babies (id, doc, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		baby.ID, string(doc), baby.CreatedAt.Unix(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert baby: %w", err)
	}
	return nil
}

// DeleteBaby removes a profile, its days, and its selection.
func (s *SQLiteStore) DeleteBaby(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM babies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete baby: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete baby: %w", err)
	} else if n == 0 {
		return fmt.Errorf("baby %s: %w", id, ErrBabyNotFound)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM days WHERE baby_id = ?", id); err != nil {
		return fmt.Errorf("delete days: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM settings WHERE key = ? AND value = ?", selectedBabyKey, id); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	return tx.Commit()
}

// SelectedBaby returns the selected ID, or "" when none is stored.
func (s *SQLiteStore) SelectedBaby(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", selectedBabyKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query selected baby: %w", err)
	}
	return id, nil
}

// SelectBaby records id as the selected baby. An empty id clears it.
func (s *SQLiteStore) SelectBaby(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", selectedBabyKey); err != nil {
			return fmt.Errorf("clear selection: %w", err)
		}
		return nil
	}
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM babies WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("baby %s: %w", id, ErrBabyNotFound)
	}
	if err != nil {
		return fmt.Errorf("query baby: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		selectedBabyKey, id,
	)
	if err != nil {
		return fmt.Errorf("select baby: %w", err)
	}
	return nil
}

// Days returns the stored days of one baby.
func (s *SQLiteStore) Days(babyID string) DayStore {
	return sqliteDays{store: s, babyID: babyID}
}

type sqliteDays struct {
	store  *SQLiteStore
	babyID string
}

// LoadDay returns the stored day, or an empty DayFile.
func (d sqliteDays) LoadDay(ctx context.Context, day time.Time) (model.DayFile, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	date := day.Format(time.DateOnly)
	var doc string
	err := d.store.db.QueryRowContext(ctx,
		"SELECT doc FROM days WHERE baby_id = ? AND date = ?", d.babyID, date,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewDayFile(day), nil
	}
	if err != nil {
		return model.DayFile{}, fmt.Errorf("query day %s: %w", date, err)
	}
	var df model.DayFile
	if err := json.Unmarshal([]byte(doc), &df); err != nil {
		return model.DayFile{}, fmt.Errorf("unmarshal day %s: %w", date, err)
	}
	normalizeDay(&df, day)
	return df, nil
}

// SaveDay upserts the day's document.
func (d sqliteDays) SaveDay(ctx context.Context, day time.Time, df model.DayFile) error {
	if err := validBabyID(d.babyID); err != nil {
		return err
	}
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	normalizeDay(&df, day)
	doc, err := json.Marshal(df)
	if err != nil {
		return fmt.Errorf("marshal day: %w", err)
	}
	_, err = d.store.db.ExecContext(ctx,
		`INSERT INTO days (baby_id, date, doc, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(baby_id, date) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		d.babyID, day.Format(time.DateOnly), string(doc), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert day: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
