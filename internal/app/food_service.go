package app

import (
	"context"
	"fmt"
	"strings"

	"calorietrack/internal/domain"

	"github.com/google/uuid"
)

// FoodService encapsulates the shared food catalog.
type FoodService struct {
	repo domain.FoodRepository
}

// NewFoodService creates a FoodService backed by the given repository.
func NewFoodService(repo domain.FoodRepository) *FoodService {
	return &FoodService{repo: repo}
}

// Search returns foods whose name contains query.
func (s *FoodService) Search(ctx context.Context, query string) ([]domain.Food, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ValidationErrors{{Field: "query", Message: "search query is required"}}
	}
	foods, err := s.repo.SearchFoods(ctx, query)
	if err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []domain.Food{}
	}
	return foods, nil
}

// Get returns a single food.
func (s *FoodService) Get(ctx context.Context, id string) (*domain.Food, error) {
	food, err := s.repo.GetFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, fmt.Errorf("food %s: %w", id, domain.ErrNotFound)
	}
	return food, nil
}

// Add stores a food. Foods posted without an id become custom foods.
func (s *FoodService) Add(ctx context.Context, food domain.Food) (domain.Food, error) {
	food.Name = strings.TrimSpace(food.Name)
	if err := domain.ValidateFoodName(food.Name); err != nil {
		return domain.Food{}, err
	}
	if food.CaloriesPer100g < 0 || food.Protein < 0 || food.Carbs < 0 || food.Fat < 0 {
		return domain.Food{}, domain.ValidationErrors{{Field: "caloriesPer100g", Message: "nutrient values must not be negative"}}
	}
	if food.ID == "" {
		food.ID = domain.CustomFoodPrefix + uuid.NewString()
	}
	if food.Category == "" {
		food.Category = domain.DefaultCategory
	}
	if err := s.repo.PutFood(ctx, food); err != nil {
		return domain.Food{}, err
	}
	return food, nil
}

// Seed inserts the foods that are not stored yet and reports how many were
// added.
func (s *FoodService) Seed(ctx context.Context, foods []domain.Food) (int, error) {
	added := 0
	for _, f := range foods {
		existing, err := s.repo.GetFood(ctx, f.ID)
		if err != nil {
			return added, fmt.Errorf("seed %s: %w", f.ID, err)
		}
		if existing != nil {
			continue
		}
		if err := s.repo.PutFood(ctx, f); err != nil {
			return added, fmt.Errorf("seed %s: %w", f.ID, err)
		}
		added++
	}
	return added, nil
}
