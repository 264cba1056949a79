package postgres

import (
	"context"
	"database/sql"
	"errors"

	"calorietrack/internal/domain"
)

var _ domain.SettingsRepository = (*DB)(nil)

// GetSettings returns the stored settings document of a user.
func (d *DB) GetSettings(ctx context.Context, userID string) (*domain.StoredSettings, error) {
	s := domain.StoredSettings{UserID: userID}
	var gender, level string
	err := d.sql.QueryRowContext(ctx,
		`SELECT schema_version, daily_calorie_goal, weight, height, age, gender, activity_level, updated_at
		FROM user_settings WHERE user_id = $1;`, userID,
	).Scan(&s.SchemaVersion, &s.DailyCalorieGoal, &s.Weight, &s.Height, &s.Age, &gender, &level, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Gender = domain.Gender(gender)
	s.ActivityLevel = domain.ActivityLevel(level)
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

// PutSettings replaces the settings document of a user.
func (d *DB) PutSettings(ctx context.Context, s domain.StoredSettings) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO user_settings(user_id, schema_version, daily_calorie_goal, weight, height, age, gender, activity_level, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET schema_version=EXCLUDED.schema_version,
			daily_calorie_goal=EXCLUDED.daily_calorie_goal, weight=EXCLUDED.weight, height=EXCLUDED.height,
			age=EXCLUDED.age, gender=EXCLUDED.gender, activity_level=EXCLUDED.activity_level,
			updated_at=EXCLUDED.updated_at;`,
		s.UserID, s.SchemaVersion, s.DailyCalorieGoal, s.Weight, s.Height, s.Age,
		string(s.Gender), string(s.ActivityLevel), s.UpdatedAt.UTC(),
	)
	return err
}
