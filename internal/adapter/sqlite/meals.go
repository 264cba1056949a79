package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"calorietrack/internal/domain"
)

const mealColumns = "id, food_id, food_name, amount, calories, protein, carbs, fat, timestamp, meal_type"

// AddMealRecord inserts rec and returns its id. A record without an id is
// given a new UUID.
func (s *Store) AddMealRecord(ctx context.Context, rec domain.MealRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO meal_records ("+mealColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
		rec.ID, rec.FoodID, rec.FoodName, rec.Amount, rec.Calories, rec.Protein, rec.Carbs, rec.Fat,
		formatTimestamp(rec.Timestamp), string(rec.MealType))
	if err != nil {
		return "", fmt.Errorf("add meal record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", fmt.Errorf("%w: %s", ErrMealExists, rec.ID)
	}
	return rec.ID, nil
}

// GetMealRecord returns the record with id, or nil when absent.
func (s *Store) GetMealRecord(ctx context.Context, id string) (*domain.MealRecord, error) {
	meals, err := s.queryMeals(ctx, "SELECT "+mealColumns+" FROM meal_records WHERE id = ?", id)
	if err != nil || len(meals) == 0 {
		return nil, err
	}
	return &meals[0], nil
}

// MealRecordsByDate returns the records of a local calendar day (YYYY-MM-DD),
// oldest first.
func (s *Store) MealRecordsByDate(ctx context.Context, day string) ([]domain.MealRecord, error) {
	start, err := time.ParseInLocation("2006-01-02", day, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", day, err)
	}
	end := start.AddDate(0, 0, 1)
	return s.queryMeals(ctx,
		"SELECT "+mealColumns+" FROM meal_records WHERE timestamp >= ? AND timestamp < ? ORDER BY timestamp ASC",
		formatTimestamp(start), formatTimestamp(end))
}

// MealRecordsSince returns records at or after t, oldest first.
func (s *Store) MealRecordsSince(ctx context.Context, t time.Time) ([]domain.MealRecord, error) {
	return s.queryMeals(ctx,
		"SELECT "+mealColumns+" FROM meal_records WHERE timestamp >= ? ORDER BY timestamp ASC",
		formatTimestamp(t))
}

// DeleteMealRecord removes one record. Missing ids are ignored.
func (s *Store) DeleteMealRecord(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM meal_records WHERE id = ?", id)
	return err
}

// ReplaceMealRecord overwrites the stored record with rec.ID in a single
// statement. ErrMealNotFound is returned when no such record exists.
func (s *Store) ReplaceMealRecord(ctx context.Context, rec domain.MealRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE meal_records SET food_id = ?, food_name = ?, amount = ?, calories = ?, protein = ?, carbs = ?, fat = ?,
			timestamp = ?, meal_type = ? WHERE id = ?`,
		rec.FoodID, rec.FoodName, rec.Amount, rec.Calories, rec.Protein, rec.Carbs, rec.Fat,
		formatTimestamp(rec.Timestamp), string(rec.MealType), rec.ID)
	if err != nil {
		return fmt.Errorf("replace meal record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrMealNotFound, rec.ID)
	}
	return nil
}

func deleteMealRecordsByFood(ctx context.Context, db execer, foodID string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM meal_records WHERE food_id = ?", foodID); err != nil {
		return fmt.Errorf("delete meal records: %w", err)
	}
	return nil
}

// ClearAllMealRecords empties the meal table.
func (s *Store) ClearAllMealRecords(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM meal_records")
	return err
}

// DailySummary sums the records of day against the stored calorie goal.
func (s *Store) DailySummary(ctx context.Context, day string) (domain.DailySummary, error) {
	meals, err := s.MealRecordsByDate(ctx, day)
	if err != nil {
		return domain.DailySummary{}, err
	}
	goal := float64(domain.DefaultCalorieGoal)
	settings, err := s.UserSettings(ctx)
	switch {
	case err == nil:
		goal = settings.DailyCalorieGoal
	case !errors.Is(err, ErrSettingsNotFound):
		return domain.DailySummary{}, err
	}
	return domain.SummarizeDay(day, meals, goal), nil
}

func (s *Store) queryMeals(ctx context.Context, query string, args ...any) ([]domain.MealRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.MealRecord
	for rows.Next() {
		var m domain.MealRecord
		var ts, mealType string
		if err := rows.Scan(&m.ID, &m.FoodID, &m.FoodName, &m.Amount, &m.Calories, &m.Protein, &m.Carbs, &m.Fat, &ts, &mealType); err != nil {
			return nil, err
		}
		if m.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("meal %s: %w", m.ID, err)
		}
		m.MealType = domain.MealType(mealType)
		out = append(out, m)
	}
	return out, rows.Err()
}
