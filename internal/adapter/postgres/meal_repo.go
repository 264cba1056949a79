package postgres

import (
	"context"
	"time"

	"calorietrack/internal/domain"
)

var _ domain.MealRepository = (*DB)(nil)

// PutMeal inserts a meal record or replaces the one with the same
// (user_id, id).
func (d *DB) PutMeal(ctx context.Context, m domain.MealRecord) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO meals(user_id, id, food_id, food_name, amount, calories, protein, carbs, fat, meal_type, timestamp)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, id) DO UPDATE SET food_id=EXCLUDED.food_id, food_name=EXCLUDED.food_name,
			amount=EXCLUDED.amount, calories=EXCLUDED.calories, protein=EXCLUDED.protein,
			carbs=EXCLUDED.carbs, fat=EXCLUDED.fat, meal_type=EXCLUDED.meal_type, timestamp=EXCLUDED.timestamp;`,
		m.UserID, m.ID, m.FoodID, m.FoodName, m.Amount, m.Calories, m.Protein, m.Carbs, m.Fat, string(m.MealType), m.Timestamp.UTC(),
	)
	return err
}

// MealsBetween lists a user's meals with start <= timestamp < end, oldest
// first.
func (d *DB) MealsBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.MealRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, food_id, food_name, amount, calories, protein, carbs, fat, meal_type, timestamp
		FROM meals WHERE user_id=$1 AND timestamp >= $2 AND timestamp < $3 ORDER BY timestamp, id;`,
		userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.MealRecord
	for rows.Next() {
		m := domain.MealRecord{UserID: userID}
		var mealType string
		if err := rows.Scan(&m.ID, &m.FoodID, &m.FoodName, &m.Amount, &m.Calories, &m.Protein, &m.Carbs, &m.Fat, &mealType, &m.Timestamp); err != nil {
			return nil, err
		}
		m.MealType = domain.MealType(mealType)
		m.Timestamp = m.Timestamp.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMeal removes a meal record, scoped to a user.
func (d *DB) DeleteMeal(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM meals WHERE user_id=$1 AND id=$2;", userID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
