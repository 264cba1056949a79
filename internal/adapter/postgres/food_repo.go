package postgres

import (
	"context"
	"database/sql"
	"errors"

	"calorietrack/internal/domain"
)

var _ domain.FoodRepository = (*DB)(nil)

// SearchFoods returns foods whose name contains query, ordered by name.
func (d *DB) SearchFoods(ctx context.Context, query string) ([]domain.Food, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, name, calories_per_100g, protein, carbs, fat, category, image_url
		FROM foods WHERE strpos(name, $1) > 0 ORDER BY name;`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Food
	for rows.Next() {
		var f domain.Food
		if err := rows.Scan(&f.ID, &f.Name, &f.CaloriesPer100g, &f.Protein, &f.Carbs, &f.Fat, &f.Category, &f.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetFood retrieves a food by id.
func (d *DB) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	var f domain.Food
	err := d.sql.QueryRowContext(ctx,
		`SELECT id, name, calories_per_100g, protein, carbs, fat, category, image_url
		FROM foods WHERE id = $1;`, id,
	).Scan(&f.ID, &f.Name, &f.CaloriesPer100g, &f.Protein, &f.Carbs, &f.Fat, &f.Category, &f.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// PutFood inserts or replaces a food.
func (d *DB) PutFood(ctx context.Context, f domain.Food) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO foods(id, name, calories_per_100g, protein, carbs, fat, category, image_url)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, calories_per_100g=EXCLUDED.calories_per_100g,
			protein=EXCLUDED.protein, carbs=EXCLUDED.carbs, fat=EXCLUDED.fat,
			category=EXCLUDED.category, image_url=EXCLUDED.image_url;`,
		f.ID, f.Name, f.CaloriesPer100g, f.Protein, f.Carbs, f.Fat, f.Category, f.ImageURL,
	)
	return err
}
