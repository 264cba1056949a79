package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"calorietrack/internal/domain"
)

// UserSettings returns the most recently updated settings row.
func (s *Store) UserSettings(ctx context.Context) (domain.UserSettings, error) {
	var st domain.UserSettings
	var gender, level string
	err := s.db.QueryRowContext(ctx,
		`SELECT daily_calorie_goal, weight, height, age, gender, activity_level
		FROM user_settings ORDER BY updated_at DESC, id DESC LIMIT 1`,
	).Scan(&st.DailyCalorieGoal, &st.Weight, &st.Height, &st.Age, &gender, &level)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserSettings{}, ErrSettingsNotFound
	}
	if err != nil {
		return domain.UserSettings{}, err
	}
	st.Gender = domain.Gender(gender)
	st.ActivityLevel = domain.ActivityLevel(level)
	return st, nil
}

// UpdateUserSettings applies the non-nil fields of u to the current row. An
// empty update changes nothing, including the timestamp.
func (s *Store) UpdateUserSettings(ctx context.Context, u domain.SettingsUpdate) error {
	if u.Empty() {
		return nil
	}

	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.DailyCalorieGoal != nil {
		add("daily_calorie_goal", *u.DailyCalorieGoal)
	}
	if u.Weight != nil {
		add("weight", *u.Weight)
	}
	if u.Height != nil {
		add("height", *u.Height)
	}
	if u.Age != nil {
		add("age", *u.Age)
	}
	if u.ActivityLevel != nil {
		add("activity_level", string(*u.ActivityLevel))
	}
	if u.Gender != nil {
		add("gender", string(*u.Gender))
	}
	add("updated_at", s.stamp())

	res, err := s.db.ExecContext(ctx,
		"UPDATE user_settings SET "+strings.Join(sets, ", ")+
			" WHERE id = (SELECT id FROM user_settings ORDER BY updated_at DESC, id DESC LIMIT 1)",
		args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSettingsNotFound
	}
	return nil
}

// ResetUserSettings replaces all settings rows with the defaults.
func (s *Store) ResetUserSettings(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_settings"); err != nil {
		return err
	}
	if err := s.insertDefaultSettings(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) insertDefaultSettings(ctx context.Context, db execer) error {
	d := domain.DefaultSettings()
	now := s.stamp()
	_, err := db.ExecContext(ctx,
		`INSERT INTO user_settings (daily_calorie_goal, weight, height, age, activity_level, gender, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.DailyCalorieGoal, d.Weight, d.Height, d.Age, string(d.ActivityLevel), string(d.Gender), now, now)
	return err
}
