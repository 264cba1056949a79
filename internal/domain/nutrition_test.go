package domain_test

import (
	"math"
	"testing"
	"time"

	"calorietrack/internal/domain"
)

func TestNutritionForAmount_FullPortionIsIdentity(t *testing.T) {
	for _, f := range domain.DefaultFoods() {
		t.Run(f.ID, func(t *testing.T) {
			got := domain.NutritionForAmount(f, 100)
			want := domain.Nutrition{Calories: f.CaloriesPer100g, Protein: f.Protein, Carbs: f.Carbs, Fat: f.Fat}
			if got != want {
				t.Errorf("NutritionForAmount(%s, 100) = %+v; want %+v", f.ID, got, want)
			}
		})
	}
}

func TestNutritionForAmount(t *testing.T) {
	rice := domain.Food{ID: "food-001", CaloriesPer100g: 168, Protein: 2.5, Carbs: 37.1, Fat: 0.3}
	tests := []struct {
		name  string
		grams float64
		want  domain.Nutrition
	}{
		{"zero grams", 0, domain.Nutrition{}},
		{"half portion", 50, domain.Nutrition{Calories: 84, Protein: 1.3, Carbs: 18.6, Fat: 0.2}},
		{"double portion", 200, domain.Nutrition{Calories: 336, Protein: 5, Carbs: 74.2, Fat: 0.6}},
		{"negative is not clamped", -100, domain.Nutrition{Calories: -168, Protein: -2.5, Carbs: -37.1, Fat: -0.3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.NutritionForAmount(rice, tc.grams)
			if !nutritionAlmostEqual(got, tc.want) {
				t.Errorf("NutritionForAmount(rice, %v) = %+v; want %+v", tc.grams, got, tc.want)
			}
		})
	}
}

func nutritionAlmostEqual(a, b domain.Nutrition) bool {
	const eps = 1e-9
	return almostEqual(a.Calories, b.Calories, eps) &&
		almostEqual(a.Protein, b.Protein, eps) &&
		almostEqual(a.Carbs, b.Carbs, eps) &&
		almostEqual(a.Fat, b.Fat, eps)
}

func TestBMR(t *testing.T) {
	s := domain.UserSettings{Weight: 70, Height: 170, Age: 30, Gender: domain.Male}
	want := 88.362 + 13.397*70 + 4.799*170 - 5.677*30
	if got := domain.BMR(s); !almostEqual(got, want, 1e-9) {
		t.Fatalf("male BMR = %v; want %v", got, want)
	}

	s.Gender = domain.Female
	want = 447.593 + 9.247*70 + 3.098*170 - 4.330*30
	if got := domain.BMR(s); !almostEqual(got, want, 1e-9) {
		t.Fatalf("female BMR = %v; want %v", got, want)
	}

	s.Gender = "unspecified"
	if got := domain.BMR(s); !almostEqual(got, want, 1e-9) {
		t.Fatalf("unknown gender BMR = %v; want female coefficients %v", got, want)
	}
}

func TestTDEE_UsesActivityLevel(t *testing.T) {
	base := domain.DefaultSettings()
	bmr := domain.BMR(base)

	tests := []struct {
		level domain.ActivityLevel
		mult  float64
	}{
		{domain.Sedentary, 1.2},
		{domain.Light, 1.375},
		{domain.Moderate, 1.55},
		{domain.Active, 1.725},
		{domain.VeryActive, 1.9},
		{"couch", 1.55},
	}
	for _, tc := range tests {
		t.Run(string(tc.level), func(t *testing.T) {
			s := base
			s.ActivityLevel = tc.level
			want := math.Round(bmr * tc.mult)
			if got := domain.TDEE(s); got != want {
				t.Errorf("TDEE(%s) = %v; want %v", tc.level, got, want)
			}
			if got := domain.RecommendedCalories(s); got != want {
				t.Errorf("RecommendedCalories(%s) = %v; want %v", tc.level, got, want)
			}
		})
	}
}

func TestCalculateMacroBalance(t *testing.T) {
	t.Run("zero nutrition", func(t *testing.T) {
		got := domain.CalculateMacroBalance(domain.Nutrition{})
		if got != (domain.MacroBalance{}) {
			t.Fatalf("expected all-zero balance, got %+v", got)
		}
		for _, v := range []float64{got.ProteinPercentage, got.CarbsPercentage, got.FatPercentage} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite percentage in %+v", got)
			}
		}
	})

	t.Run("mixed", func(t *testing.T) {
		got := domain.CalculateMacroBalance(domain.Nutrition{Protein: 30, Carbs: 60, Fat: 20})
		if got.ProteinPercentage != 22 || got.CarbsPercentage != 44 || got.FatPercentage != 33 {
			t.Fatalf("unexpected percentages %+v", got)
		}
		if got.ProteinGrams != 30 || got.CarbsGrams != 60 || got.FatGrams != 20 {
			t.Fatalf("unexpected grams %+v", got)
		}
	})
}

func TestCheckMacroBalance(t *testing.T) {
	if issues := domain.CheckMacroBalance(domain.RecommendedMacroDistribution()); len(issues) != 0 {
		t.Fatalf("recommended split flagged: %v", issues)
	}
	issues := domain.CheckMacroBalance(domain.MacroBalance{ProteinPercentage: 10, CarbsPercentage: 80, FatPercentage: 10})
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", issues)
	}
}

func TestCalculateCalorieProgress(t *testing.T) {
	tests := []struct {
		name          string
		current, goal float64
		wantPct       float64
		wantRemaining float64
		wantStatus    domain.ProgressStatus
	}{
		{"under", 1000, 2000, 50, 1000, domain.Under},
		{"exact", 2000, 2000, 100, 0, domain.OnTarget},
		{"upper bound", 2200, 2000, 110, 0, domain.OnTarget},
		{"over", 2300, 2000, 115, 0, domain.Over},
		{"capped", 5000, 2000, 200, 0, domain.Over},
		{"no goal", 500, 0, 0, 0, domain.Under},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.CalculateCalorieProgress(tc.current, tc.goal)
			if got.Percentage != tc.wantPct || got.Remaining != tc.wantRemaining || got.Status != tc.wantStatus {
				t.Errorf("CalculateCalorieProgress(%v, %v) = %+v", tc.current, tc.goal, got)
			}
		})
	}
}

func TestProteinPerKg(t *testing.T) {
	if got := domain.ProteinPerKg(84, 70); got != 1.2 {
		t.Errorf("ProteinPerKg(84, 70) = %v; want 1.2", got)
	}
	if got := domain.ProteinPerKg(84, 0); got != 0 {
		t.Errorf("ProteinPerKg(84, 0) = %v; want 0", got)
	}
	if got := domain.RecommendedProteinPerKg(domain.VeryActive); got != 1.6 {
		t.Errorf("RecommendedProteinPerKg(very_active) = %v; want 1.6", got)
	}
}

func TestTotalNutrition_OrderIndependent(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var meals []domain.MealRecord
	for i, f := range domain.DefaultFoods() {
		meals = append(meals, domain.NewMealRecord(f, float64(37*(i+1)), domain.Lunch, at))
	}

	forward := domain.TotalNutrition(meals)

	reversed := make([]domain.MealRecord, len(meals))
	for i, m := range meals {
		reversed[len(meals)-1-i] = m
	}
	backward := domain.TotalNutrition(reversed)

	// (a+b)+c against a+(b+c): total of the tail added to the head.
	head := domain.TotalNutrition(meals[:1])
	regrouped := head.Add(domain.TotalNutrition(meals[1:]))

	for _, other := range []domain.Nutrition{backward, regrouped} {
		if !almostEqual(forward.Calories, other.Calories, 1e-6) ||
			!almostEqual(forward.Protein, other.Protein, 1e-6) ||
			!almostEqual(forward.Carbs, other.Carbs, 1e-6) ||
			!almostEqual(forward.Fat, other.Fat, 1e-6) {
			t.Fatalf("sum depends on order: %+v vs %+v", forward, other)
		}
	}
}

func TestSummarizeDay(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	foods := domain.DefaultFoods()
	meals := []domain.MealRecord{
		domain.NewMealRecord(foods[0], 200, domain.Breakfast, at),
		domain.NewMealRecord(foods[1], 150, domain.Dinner, at),
	}

	got := domain.SummarizeDay("2026-03-01", meals, 1800)
	wantCalories := meals[0].Calories + meals[1].Calories
	if got.TotalCalories != wantCalories {
		t.Fatalf("TotalCalories = %v; want %v", got.TotalCalories, wantCalories)
	}
	if got.GoalCalories != 1800 || len(got.Meals) != 2 {
		t.Fatalf("unexpected summary %+v", got)
	}

	empty := domain.SummarizeDay("2026-03-02", nil, 2000)
	if empty.Meals == nil || empty.TotalCalories != 0 {
		t.Fatalf("expected empty non-nil meals, got %+v", empty)
	}
}
