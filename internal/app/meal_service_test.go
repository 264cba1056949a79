package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"calorietrack/internal/app"
	"calorietrack/internal/domain"
)

type mockMealRepo struct {
	putFn     func(ctx context.Context, meal domain.MealRecord) error
	betweenFn func(ctx context.Context, userID string, start, end time.Time) ([]domain.MealRecord, error)
	deleteFn  func(ctx context.Context, userID, id string) error
}

func (m *mockMealRepo) PutMeal(ctx context.Context, meal domain.MealRecord) error {
	if m.putFn != nil {
		return m.putFn(ctx, meal)
	}
	return nil
}

func (m *mockMealRepo) MealsBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.MealRecord, error) {
	if m.betweenFn != nil {
		return m.betweenFn(ctx, userID, start, end)
	}
	return nil, nil
}

func (m *mockMealRepo) DeleteMeal(ctx context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

type mockFoodRepo struct {
	searchFn func(ctx context.Context, q string) ([]domain.Food, error)
	getFn    func(ctx context.Context, id string) (*domain.Food, error)
	putFn    func(ctx context.Context, food domain.Food) error
}

func (m *mockFoodRepo) SearchFoods(ctx context.Context, q string) ([]domain.Food, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return nil, nil
}

func (m *mockFoodRepo) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockFoodRepo) PutFood(ctx context.Context, food domain.Food) error {
	if m.putFn != nil {
		return m.putFn(ctx, food)
	}
	return nil
}

func TestMealService_Add_Validation(t *testing.T) {
	svc := app.NewMealService(&mockMealRepo{}, &mockFoodRepo{})

	tests := []struct {
		name string
		meal domain.MealRecord
	}{
		{"missing user", domain.MealRecord{FoodID: "food-001", Amount: 100, MealType: domain.Lunch}},
		{"missing food", domain.MealRecord{UserID: "u1", Amount: 100, MealType: domain.Lunch}},
		{"zero amount", domain.MealRecord{UserID: "u1", FoodID: "food-001", MealType: domain.Lunch}},
		{"bad meal type", domain.MealRecord{UserID: "u1", FoodID: "food-001", Amount: 100, MealType: "brunch"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), tc.meal)
			var verrs domain.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestMealService_Add_KeepsClientID(t *testing.T) {
	var stored []domain.MealRecord
	repo := &mockMealRepo{
		putFn: func(_ context.Context, m domain.MealRecord) error {
			stored = append(stored, m)
			return nil
		},
	}
	svc := app.NewMealService(repo, &mockFoodRepo{})

	meal := domain.MealRecord{ID: "client-1", UserID: "u1", FoodID: "food-001", Amount: 100, MealType: domain.Lunch}
	id, err := svc.Add(context.Background(), meal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "client-1" {
		t.Fatalf("expected client id to be kept, got %s", id)
	}

	meal.ID = ""
	id, err = svc.Add(context.Background(), meal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" || id == "client-1" {
		t.Fatalf("expected a generated id, got %q", id)
	}
	if stored[1].Timestamp.IsZero() {
		t.Fatal("expected timestamp to default to now")
	}
}

func TestMealService_DailySummary(t *testing.T) {
	rice := domain.Food{ID: "food-001", Name: "White rice (cooked)", CaloriesPer100g: 168, Protein: 2.5, Carbs: 37.1, Fat: 0.3}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := &mockMealRepo{
		betweenFn: func(_ context.Context, userID string, start, end time.Time) ([]domain.MealRecord, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user %s", userID)
			}
			if !start.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) || !end.Equal(start.Add(24*time.Hour)) {
				t.Fatalf("unexpected bounds %v - %v", start, end)
			}
			return []domain.MealRecord{
				{ID: "m1", UserID: "u1", FoodID: "food-002", FoodName: "Chicken", Amount: 100, Calories: 108.4, Protein: 22.3, Fat: 1.5, Timestamp: at, MealType: domain.Lunch},
				{ID: "m2", UserID: "u1", FoodID: "food-001", Amount: 200, Timestamp: at, MealType: domain.Dinner},
				{ID: "m3", UserID: "u1", FoodID: "food-999", Amount: 50, Timestamp: at, MealType: domain.Snack},
			}, nil
		},
	}
	foods := &mockFoodRepo{
		getFn: func(_ context.Context, id string) (*domain.Food, error) {
			if id == rice.ID {
				return &rice, nil
			}
			return nil, nil
		},
	}
	svc := app.NewMealService(repo, foods)

	report, err := svc.DailySummary(context.Background(), "u1", "2026-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary.MealCount != 2 || len(report.Meals) != 2 {
		t.Fatalf("expected legacy meal without food to be dropped, got %+v", report.Summary)
	}
	legacy := report.Meals[1]
	if legacy.FoodName != rice.Name || legacy.Calories != 336 || legacy.Carbs != 74.2 {
		t.Fatalf("legacy meal not enriched: %+v", legacy)
	}
	// 108.4 + 336 rounds to a whole number.
	if report.Summary.TotalCalories != 444 {
		t.Fatalf("expected 444 kcal, got %v", report.Summary.TotalCalories)
	}
	if report.Summary.TotalProtein != 27.3 {
		t.Fatalf("expected 27.3 g protein, got %v", report.Summary.TotalProtein)
	}
}

func TestMealService_DailySummary_BadDate(t *testing.T) {
	svc := app.NewMealService(&mockMealRepo{}, &mockFoodRepo{})
	_, err := svc.DailySummary(context.Background(), "u1", "03/01/2026")
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMealService_MealsInRange(t *testing.T) {
	var gotStart, gotEnd time.Time
	repo := &mockMealRepo{
		betweenFn: func(_ context.Context, _ string, start, end time.Time) ([]domain.MealRecord, error) {
			gotStart, gotEnd = start, end
			return nil, nil
		},
	}
	svc := app.NewMealService(repo, &mockFoodRepo{})

	meals, err := svc.MealsInRange(context.Background(), "u1", "2026-02-01", "2026-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meals == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if !gotStart.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) || !gotEnd.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected bounds %v - %v", gotStart, gotEnd)
	}

	if _, err := svc.MealsInRange(context.Background(), "u1", "2026-02-01", ""); err == nil {
		t.Fatal("expected error for half-open range")
	}
	if _, err := svc.MealsInRange(context.Background(), "u1", "2026-03-01", "2026-02-01"); err == nil {
		t.Fatal("expected error for reversed range")
	}
}

func TestMealService_Delete_NotFound(t *testing.T) {
	repo := &mockMealRepo{
		deleteFn: func(context.Context, string, string) error { return domain.ErrNotFound },
	}
	err := app.NewMealService(repo, &mockFoodRepo{}).Delete(context.Background(), "u1", "m1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
