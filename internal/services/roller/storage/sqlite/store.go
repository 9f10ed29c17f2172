// Package sqlite provides a SQLite-backed roll history store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/dicenotation/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const rollColumns = `id, notation, canonical, force_sum, seed, seed_source, roll_mode,
       rolls_json, kept_json, dropped_json, summed, total, created_at`

// Store persists roll history in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite history store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendRoll inserts one roll record.
func (s *Store) AppendRoll(ctx context.Context, record storage.RollRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("roll id is required")
	}
	if strings.TrimSpace(record.Notation) == "" {
		return fmt.Errorf("notation is required")
	}
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	rollsJSON, err := encodeValues(record.Rolls)
	if err != nil {
		return err
	}
	keptJSON, err := encodeValues(record.Kept)
	if err != nil {
		return err
	}
	droppedJSON, err := encodeValues(record.Dropped)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rolls (`+rollColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		record.Notation,
		record.Canonical,
		boolToInt(record.ForceSum),
		record.Seed,
		record.SeedSource,
		record.RollMode,
		rollsJSON,
		keptJSON,
		droppedJSON,
		boolToInt(record.Summed),
		record.Total,
		toMillis(createdAt),
	)
	if err != nil {
		if isRollUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("append roll: %w", err)
	}
	return nil
}

// GetRoll returns one roll record by ID.
func (s *Store) GetRoll(ctx context.Context, id string) (storage.RollRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.RollRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.RollRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.RollRecord{}, fmt.Errorf("roll id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+rollColumns+` FROM rolls WHERE id = ?`, id)
	record, err := scanRoll(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.RollRecord{}, storage.ErrNotFound
		}
		return storage.RollRecord{}, fmt.Errorf("get roll: %w", err)
	}
	return record, nil
}

// ListRolls returns up to limit roll records, newest first.
func (s *Store) ListRolls(ctx context.Context, limit int) ([]storage.RollRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+rollColumns+`
		   FROM rolls
		  ORDER BY created_at DESC, rowid DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	records := make([]storage.RollRecord, 0, limit)
	for rows.Next() {
		record, err := scanRoll(rows)
		if err != nil {
			return nil, fmt.Errorf("list rolls: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rolls: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoll(row rowScanner) (storage.RollRecord, error) {
	var (
		record                           storage.RollRecord
		forceSum, summed                 int
		rollsJSON, keptJSON, droppedJSON string
		createdAt                        int64
	)
	if err := row.Scan(
		&record.ID,
		&record.Notation,
		&record.Canonical,
		&forceSum,
		&record.Seed,
		&record.SeedSource,
		&record.RollMode,
		&rollsJSON,
		&keptJSON,
		&droppedJSON,
		&summed,
		&record.Total,
		&createdAt,
	); err != nil {
		return storage.RollRecord{}, err
	}

	var err error
	if record.Rolls, err = decodeValues(rollsJSON); err != nil {
		return storage.RollRecord{}, err
	}
	if record.Kept, err = decodeValues(keptJSON); err != nil {
		return storage.RollRecord{}, err
	}
	if record.Dropped, err = decodeValues(droppedJSON); err != nil {
		return storage.RollRecord{}, err
	}
	record.ForceSum = forceSum != 0
	record.Summed = summed != 0
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}

func encodeValues(values []int) (string, error) {
	if values == nil {
		values = []int{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode dice values: %w", err)
	}
	return string(data), nil
}

func decodeValues(data string) ([]int, error) {
	var values []int
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("decode dice values: %w", err)
	}
	return values, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isRollUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "rolls.id")
}

var _ storage.HistoryStore = (*Store)(nil)
