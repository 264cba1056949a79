package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"calorietrack/internal/domain"
)

const foodColumns = "id, name, calories_per_100g, protein, carbs, fat, category, image_url"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (domain.Food, error) {
	var f domain.Food
	err := row.Scan(&f.ID, &f.Name, &f.CaloriesPer100g, &f.Protein, &f.Carbs, &f.Fat, &f.Category, &f.ImageURL)
	return f, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SearchFoods returns foods whose name contains query, ignoring ASCII case,
// ordered by name.
func (s *Store) SearchFoods(ctx context.Context, query string) ([]domain.Food, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+foodColumns+` FROM foods WHERE name LIKE ? ESCAPE '\' ORDER BY name ASC`,
		"%"+likeEscaper.Replace(query)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetFood returns the food with id, or nil when absent.
func (s *Store) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	f, err := scanFood(s.db.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM foods WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FoodCategories lists the distinct categories in name order.
func (s *Store) FoodCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT category FROM foods ORDER BY category ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddCustomFood stores a user-authored food under a new custom id and
// returns the id.
func (s *Store) AddCustomFood(ctx context.Context, food domain.Food) (string, error) {
	food.ID = domain.CustomFoodPrefix + uuid.NewString()
	if food.Category == "" {
		food.Category = domain.DefaultCategory
	}
	if err := s.insertFood(ctx, s.db, food); err != nil {
		return "", fmt.Errorf("add custom food: %w", err)
	}
	return food.ID, nil
}

// DeleteFood removes a custom food together with every meal record that
// references it.
func (s *Store) DeleteFood(ctx context.Context, id string) error {
	if !domain.IsCustomFoodID(id) {
		return ErrDefaultFoodDeletion
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM foods WHERE id = ?)", id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrFoodNotFound
	}
	if err := deleteMealRecordsByFood(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM foods WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	return tx.Commit()
}

func (s *Store) insertFood(ctx context.Context, db execer, f domain.Food) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO foods ("+foodColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		f.ID, f.Name, f.CaloriesPer100g, f.Protein, f.Carbs, f.Fat, f.Category, f.ImageURL)
	return err
}
