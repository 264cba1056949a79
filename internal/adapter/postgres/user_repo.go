package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"calorietrack/internal/domain"
)

var _ domain.UserRepository = (*DB)(nil)

const userColumns = "id, email, display_name, daily_calorie_goal, password_hash, created_at, updated_at, last_login_at"

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.DailyCalorieGoal, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		u.LastLoginAt = &t
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

// GetByEmail retrieves a user by email.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

// Create creates a new user.
func (d *DB) Create(ctx context.Context, u domain.User) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		u.ID, u.Email, u.DisplayName, u.DailyCalorieGoal, u.PasswordHash, u.CreatedAt, u.UpdatedAt, nullTime(u.LastLoginAt),
	)
	if uniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// Update replaces the mutable fields of a user.
func (d *DB) Update(ctx context.Context, u domain.User) error {
	res, err := d.sql.ExecContext(ctx,
		`UPDATE users SET email=$2, display_name=$3, daily_calorie_goal=$4, password_hash=$5,
			updated_at=$6, last_login_at=$7 WHERE id=$1`,
		u.ID, u.Email, u.DisplayName, u.DailyCalorieGoal, u.PasswordHash, u.UpdatedAt, nullTime(u.LastLoginAt),
	)
	if err != nil {
		if uniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return requireRow(res)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
