package domain

import (
	"context"
	"errors"
	"time"
)

// MealType is the slot of the day a meal belongs to.
type MealType string

// Meal types.
const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// Valid reports whether t is one of the four known meal types.
func (t MealType) Valid() bool {
	switch t {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// MealRecord is a frozen snapshot of a food eaten in a given amount. The
// nutrition values are captured at creation time and never recomputed from
// the source food.
type MealRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	FoodID    string    `json:"foodId"`
	FoodName  string    `json:"foodName"`
	Amount    float64   `json:"amount"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Timestamp time.Time `json:"timestamp"`
	MealType  MealType  `json:"mealType"`
}

// Nutrition returns the record's nutrient snapshot.
func (m MealRecord) Nutrition() Nutrition {
	return Nutrition{Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fat: m.Fat}
}

// NewMealRecord snapshots the nutrition of grams of food into a new record.
// The caller assigns the id.
func NewMealRecord(food Food, grams float64, mealType MealType, at time.Time) MealRecord {
	n := NutritionForAmount(food, grams)
	return MealRecord{
		FoodID:    food.ID,
		FoodName:  food.Name,
		Amount:    grams,
		Calories:  n.Calories,
		Protein:   n.Protein,
		Carbs:     n.Carbs,
		Fat:       n.Fat,
		Timestamp: at,
		MealType:  mealType,
	}
}

// DailySummary is derived on demand from a day's meal records.
type DailySummary struct {
	Date          string       `json:"date"`
	Meals         []MealRecord `json:"meals"`
	TotalCalories float64      `json:"totalCalories"`
	TotalProtein  float64      `json:"totalProtein"`
	TotalCarbs    float64      `json:"totalCarbs"`
	TotalFat      float64      `json:"totalFat"`
	GoalCalories  float64      `json:"goalCalories"`
}

// SummarizeDay builds the summary of meals for day against goal.
func SummarizeDay(day string, meals []MealRecord, goal float64) DailySummary {
	total := TotalNutrition(meals)
	if meals == nil {
		meals = []MealRecord{}
	}
	return DailySummary{
		Date:          day,
		Meals:         meals,
		TotalCalories: total.Calories,
		TotalProtein:  total.Protein,
		TotalCarbs:    total.Carbs,
		TotalFat:      total.Fat,
		GoalCalories:  goal,
	}
}

// MealRepository is the port for meal persistence on the remote API.
// PutMeal is an upsert keyed by (UserID, ID). DeleteMeal returns ErrNotFound
// when no record matches.
type MealRepository interface {
	PutMeal(ctx context.Context, meal MealRecord) error
	MealsBetween(ctx context.Context, userID string, start, end time.Time) ([]MealRecord, error)
	DeleteMeal(ctx context.Context, userID, id string) error
}

// ErrNotFound is returned by repositories when the addressed record does not
// exist.
var ErrNotFound = errors.New("not found")
