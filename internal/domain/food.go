// Package domain contains the core business entities, the nutrition
// calculator, and the repository ports of the remote API.
package domain

import (
	"context"
	"strings"
)

// CustomFoodPrefix marks user-authored foods. Only these may be deleted.
const CustomFoodPrefix = "custom_"

// Food is a nutrition reference entry. Nutrient values are per 100 g.
type Food struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CaloriesPer100g float64 `json:"caloriesPer100g"`
	Protein         float64 `json:"protein"`
	Carbs           float64 `json:"carbs"`
	Fat             float64 `json:"fat"`
	Category        string  `json:"category"`
	ImageURL        string  `json:"imageUrl,omitempty"`
}

// IsCustom reports whether the food was created by the user.
func (f Food) IsCustom() bool {
	return IsCustomFoodID(f.ID)
}

// IsCustomFoodID reports whether id belongs to a user-authored food.
func IsCustomFoodID(id string) bool {
	return strings.HasPrefix(id, CustomFoodPrefix)
}

// FoodRepository is the port for food persistence on the remote API.
type FoodRepository interface {
	SearchFoods(ctx context.Context, query string) ([]Food, error)
	GetFood(ctx context.Context, id string) (*Food, error)
	PutFood(ctx context.Context, food Food) error
}
