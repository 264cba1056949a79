// Package sqlite implements the device-local store on an embedded SQLite
// database. It holds the food catalog, meal records, the settings row and a
// small key-value table for session state.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"calorietrack/internal/domain"
)

var (
	// ErrStoreInit is returned when the database cannot be opened or prepared.
	ErrStoreInit = errors.New("failed to initialize the local database")
	// ErrFoodNotFound is returned when deleting a food that does not exist.
	ErrFoodNotFound = errors.New("food not found")
	// ErrDefaultFoodDeletion is returned when deleting a non-custom food.
	ErrDefaultFoodDeletion = errors.New("cannot delete default food")
	// ErrSettingsNotFound is returned when no settings row exists.
	ErrSettingsNotFound = errors.New("user settings not found")
	// ErrMealExists is returned when a meal record id is already stored.
	ErrMealExists = errors.New("meal record already exists")
	// ErrMealNotFound is returned when replacing a record that does not exist.
	ErrMealNotFound = errors.New("meal record not found")
)

// timestampLayout is fixed width UTC so that text order is time order.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Store is the local database. All access goes through one connection.
type Store struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// Open opens or creates the database at path, creates missing tables and
// seeds the default catalog and settings into an empty database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreInit, err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, loc: time.Local, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreInit, err)
	}
	if err := s.seed(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreInit, err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS foods (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			calories_per_100g REAL NOT NULL,
			protein REAL NOT NULL,
			carbs REAL NOT NULL,
			fat REAL NOT NULL,
			category TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS meal_records (
			id TEXT PRIMARY KEY,
			food_id TEXT NOT NULL,
			food_name TEXT NOT NULL,
			amount REAL NOT NULL,
			calories REAL NOT NULL,
			protein REAL NOT NULL,
			carbs REAL NOT NULL,
			fat REAL NOT NULL,
			timestamp TEXT NOT NULL,
			meal_type TEXT NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_meal_records_timestamp ON meal_records(timestamp);",
		"CREATE INDEX IF NOT EXISTS idx_meal_records_food ON meal_records(food_id);",
		`CREATE TABLE IF NOT EXISTS user_settings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			daily_calorie_goal REAL NOT NULL DEFAULT 2000,
			weight REAL NOT NULL DEFAULT 0,
			height REAL NOT NULL DEFAULT 0,
			age INTEGER NOT NULL DEFAULT 0,
			activity_level TEXT NOT NULL DEFAULT 'moderate',
			gender TEXT NOT NULL DEFAULT 'male',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) seed(ctx context.Context) error {
	var foods int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM foods").Scan(&foods); err != nil {
		return err
	}
	if foods == 0 {
		for _, f := range domain.DefaultFoods() {
			if err := s.insertFood(ctx, s.db, f); err != nil {
				return fmt.Errorf("seed foods: %w", err)
			}
		}
	}

	var settings int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_settings").Scan(&settings); err != nil {
		return err
	}
	if settings == 0 {
		return s.insertDefaultSettings(ctx, s.db)
	}
	return nil
}

func (s *Store) stamp() string {
	return formatTimestamp(s.now())
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv_store(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}

// Delete removes key. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key)
	return err
}
