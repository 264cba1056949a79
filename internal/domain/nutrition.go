package domain

import "math"

// Energy per gram of each macronutrient, in kcal.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// Nutrition is an amount of energy and macronutrients.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// NutritionForAmount scales food's per-100 g values to grams, rounded to one
// decimal. grams is not validated here.
func NutritionForAmount(food Food, grams float64) Nutrition {
	ratio := grams / 100
	return Nutrition{
		Calories: round1(food.CaloriesPer100g * ratio),
		Protein:  round1(food.Protein * ratio),
		Carbs:    round1(food.Carbs * ratio),
		Fat:      round1(food.Fat * ratio),
	}
}

// BMR returns the basal metabolic rate using the Harris-Benedict equation.
// Any gender other than male uses the female coefficients.
func BMR(s UserSettings) float64 {
	w, h, a := s.Weight, s.Height, float64(s.Age)
	if s.Gender == Male {
		return 88.362 + 13.397*w + 4.799*h - 5.677*a
	}
	return 447.593 + 9.247*w + 3.098*h - 4.330*a
}

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// ActivityMultiplier returns the TDEE factor for level. Unknown levels are
// treated as moderate.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[Moderate]
}

// TDEE returns the total daily energy expenditure, rounded to whole kcal.
func TDEE(s UserSettings) float64 {
	return math.Round(BMR(s) * ActivityMultiplier(s.ActivityLevel))
}

// RecommendedCalories returns the maintenance intake for s.
func RecommendedCalories(s UserSettings) float64 {
	return math.Round(TDEE(s))
}

// TotalNutrition sums the nutrition of meals. The result does not depend on
// the order of meals beyond floating-point rounding.
func TotalNutrition(meals []MealRecord) Nutrition {
	var total Nutrition
	for _, m := range meals {
		total = total.Add(m.Nutrition())
	}
	return total
}

// MacroBalance is the share of energy coming from each macronutrient.
type MacroBalance struct {
	ProteinPercentage float64 `json:"proteinPercentage"`
	CarbsPercentage   float64 `json:"carbsPercentage"`
	FatPercentage     float64 `json:"fatPercentage"`
	ProteinGrams      float64 `json:"proteinGrams"`
	CarbsGrams        float64 `json:"carbsGrams"`
	FatGrams          float64 `json:"fatGrams"`
}

// CalculateMacroBalance derives whole-number percentages of energy from
// protein, carbs and fat. All values are zero when there is no energy.
func CalculateMacroBalance(n Nutrition) MacroBalance {
	p := n.Protein * kcalPerGramProtein
	c := n.Carbs * kcalPerGramCarbs
	f := n.Fat * kcalPerGramFat
	total := p + c + f
	if total == 0 {
		return MacroBalance{}
	}
	return MacroBalance{
		ProteinPercentage: math.Round(p / total * 100),
		CarbsPercentage:   math.Round(c / total * 100),
		FatPercentage:     math.Round(f / total * 100),
		ProteinGrams:      n.Protein,
		CarbsGrams:        n.Carbs,
		FatGrams:          n.Fat,
	}
}

// RecommendedMacroDistribution returns the general-purpose 20/50/30 split.
func RecommendedMacroDistribution() MacroBalance {
	return MacroBalance{ProteinPercentage: 20, CarbsPercentage: 50, FatPercentage: 30}
}

// CheckMacroBalance lists the macronutrients outside their healthy ranges.
// An empty result means the balance is healthy.
func CheckMacroBalance(b MacroBalance) []string {
	var issues []string
	switch {
	case b.ProteinPercentage < 15:
		issues = append(issues, "protein intake is too low")
	case b.ProteinPercentage > 35:
		issues = append(issues, "protein intake is too high")
	}
	switch {
	case b.CarbsPercentage < 45:
		issues = append(issues, "carbohydrate intake is too low")
	case b.CarbsPercentage > 70:
		issues = append(issues, "carbohydrate intake is too high")
	}
	switch {
	case b.FatPercentage < 20:
		issues = append(issues, "fat intake is too low")
	case b.FatPercentage > 40:
		issues = append(issues, "fat intake is too high")
	}
	return issues
}

// ProgressStatus classifies intake against the goal.
type ProgressStatus string

// Progress statuses.
const (
	Under    ProgressStatus = "under"
	OnTarget ProgressStatus = "on_target"
	Over     ProgressStatus = "over"
)

// CalorieProgress is the day's intake relative to the goal.
type CalorieProgress struct {
	Percentage float64        `json:"percentage"`
	Remaining  float64        `json:"remaining"`
	Status     ProgressStatus `json:"status"`
}

// CalculateCalorieProgress compares current intake to goal. The percentage is
// capped at 200; a non-positive goal counts as 0%.
func CalculateCalorieProgress(current, goal float64) CalorieProgress {
	var pct float64
	if goal > 0 {
		pct = math.Round(current / goal * 100)
	}
	status := Over
	switch {
	case pct < 90:
		status = Under
	case pct <= 110:
		status = OnTarget
	}
	return CalorieProgress{
		Percentage: math.Min(pct, 200),
		Remaining:  math.Max(0, goal-current),
		Status:     status,
	}
}

// ProteinPerKg returns grams of protein per kilogram of body weight.
func ProteinPerKg(totalProtein, weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	return round1(totalProtein / weight)
}

var proteinPerKg = map[ActivityLevel]float64{
	Sedentary:  0.8,
	Light:      1.0,
	Moderate:   1.2,
	Active:     1.4,
	VeryActive: 1.6,
}

// RecommendedProteinPerKg returns the suggested daily protein in g/kg.
func RecommendedProteinPerKg(level ActivityLevel) float64 {
	if v, ok := proteinPerKg[level]; ok {
		return v
	}
	return proteinPerKg[Moderate]
}
