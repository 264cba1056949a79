package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"calorietrack/internal/domain"

	"github.com/google/uuid"
)

const (
	dayLayout = "2006-01-02"
	// defaultRangeDays is used by MealsInRange when no bounds are given.
	defaultRangeDays = 30
)

// DayTotals is the aggregate block of a daily report.
type DayTotals struct {
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFat      float64 `json:"totalFat"`
	MealCount     int     `json:"mealCount"`
}

// DailyReport is the remote view of one user's day.
type DailyReport struct {
	Date    string              `json:"date"`
	Meals   []domain.MealRecord `json:"meals"`
	Summary DayTotals           `json:"summary"`
}

// MealService encapsulates meal logging use cases. Days are UTC calendar
// days on the server.
type MealService struct {
	meals domain.MealRepository
	foods domain.FoodRepository
	now   func() time.Time
}

// NewMealService creates a MealService. foods is used to fill in legacy
// records stored without a nutrition snapshot.
func NewMealService(meals domain.MealRepository, foods domain.FoodRepository) *MealService {
	return &MealService{meals: meals, foods: foods, now: time.Now}
}

// Add upserts a meal record and returns its id. A record without an id gets
// a new one; one with an id replaces the stored copy.
func (s *MealService) Add(ctx context.Context, meal domain.MealRecord) (string, error) {
	var errs domain.ValidationErrors
	if meal.UserID == "" {
		errs = append(errs, domain.FieldError{Field: "userId", Message: "userId is required"})
	}
	if meal.FoodID == "" {
		errs = append(errs, domain.FieldError{Field: "foodId", Message: "foodId is required"})
	}
	if meal.Amount <= 0 {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "amount is required"})
	}
	if !meal.MealType.Valid() {
		errs = append(errs, domain.FieldError{Field: "mealType", Message: "mealType must be breakfast, lunch, dinner or snack"})
	}
	if err := errs.Err(); err != nil {
		return "", err
	}

	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	if meal.Timestamp.IsZero() {
		meal.Timestamp = s.now()
	}
	meal.Timestamp = meal.Timestamp.UTC()
	if err := s.meals.PutMeal(ctx, meal); err != nil {
		return "", err
	}
	return meal.ID, nil
}

// MealsInRange lists meals between two inclusive dates. With no dates it
// covers the trailing 30 days.
func (s *MealService) MealsInRange(ctx context.Context, userID, startDate, endDate string) ([]domain.MealRecord, error) {
	var start, end time.Time
	switch {
	case startDate == "" && endDate == "":
		today := s.now().UTC().Truncate(24 * time.Hour)
		start = today.AddDate(0, 0, -defaultRangeDays)
		end = today.AddDate(0, 0, 1)
	case startDate == "" || endDate == "":
		return nil, domain.ValidationErrors{{Field: "startDate", Message: "startDate and endDate must be given together"}}
	default:
		var err error
		if start, err = time.Parse(dayLayout, startDate); err != nil {
			return nil, domain.ValidationErrors{{Field: "startDate", Message: "startDate must be YYYY-MM-DD"}}
		}
		if end, err = time.Parse(dayLayout, endDate); err != nil {
			return nil, domain.ValidationErrors{{Field: "endDate", Message: "endDate must be YYYY-MM-DD"}}
		}
		end = end.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return nil, domain.ValidationErrors{{Field: "endDate", Message: "endDate must not be before startDate"}}
	}

	meals, err := s.meals.MealsBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []domain.MealRecord{}
	}
	return meals, nil
}

// DailySummary returns the meals and totals of one day. Records stored
// without a nutrition snapshot are computed from the food catalog; records
// whose food no longer exists are left out.
func (s *MealService) DailySummary(ctx context.Context, userID, date string) (*DailyReport, error) {
	day, err := time.Parse(dayLayout, date)
	if err != nil {
		return nil, domain.ValidationErrors{{Field: "date", Message: "date must be YYYY-MM-DD"}}
	}
	stored, err := s.meals.MealsBetween(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	meals := make([]domain.MealRecord, 0, len(stored))
	for _, m := range stored {
		if m.FoodName == "" {
			enriched, ok, err := s.enrich(ctx, m)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			m = enriched
		}
		meals = append(meals, m)
	}

	total := domain.TotalNutrition(meals)
	return &DailyReport{
		Date:  date,
		Meals: meals,
		Summary: DayTotals{
			TotalCalories: math.Round(total.Calories),
			TotalProtein:  math.Round(total.Protein*10) / 10,
			TotalCarbs:    math.Round(total.Carbs*10) / 10,
			TotalFat:      math.Round(total.Fat*10) / 10,
			MealCount:     len(meals),
		},
	}, nil
}

func (s *MealService) enrich(ctx context.Context, m domain.MealRecord) (domain.MealRecord, bool, error) {
	food, err := s.foods.GetFood(ctx, m.FoodID)
	if err != nil {
		return m, false, fmt.Errorf("food %s: %w", m.FoodID, err)
	}
	if food == nil {
		return m, false, nil
	}
	n := domain.NutritionForAmount(*food, m.Amount)
	m.FoodName = food.Name
	m.Calories = math.Round(food.CaloriesPer100g * m.Amount / 100)
	m.Protein, m.Carbs, m.Fat = n.Protein, n.Carbs, n.Fat
	return m, true, nil
}

// Delete removes one of the user's meals.
func (s *MealService) Delete(ctx context.Context, userID, id string) error {
	if err := s.meals.DeleteMeal(ctx, userID, id); err != nil {
		return fmt.Errorf("meal %s: %w", id, err)
	}
	return nil
}
