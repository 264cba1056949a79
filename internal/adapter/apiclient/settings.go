package apiclient

import (
	"time"

	"calorietrack/internal/domain"
)

// settingsDocument accepts both the versioned settings document and the
// unversioned one written by older backends, which used target_calories,
// targetCalories and activity_level.
type settingsDocument struct {
	ID               string    `json:"id"`
	SchemaVersion    int       `json:"schemaVersion"`
	DailyCalorieGoal *float64  `json:"dailyCalorieGoal"`
	Weight           float64   `json:"weight"`
	Height           float64   `json:"height"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	ActivityLevel    string    `json:"activityLevel"`
	UpdatedAt        time.Time `json:"updatedAt"`

	LegacyTargetCalories      *float64 `json:"target_calories"`
	LegacyTargetCaloriesCamel *float64 `json:"targetCalories"`
	LegacyActivityLevel       string   `json:"activity_level"`
}

func (d settingsDocument) canonical() domain.StoredSettings {
	st := domain.StoredSettings{
		UserID:        d.ID,
		SchemaVersion: domain.SettingsSchemaVersion,
		UserSettings: domain.UserSettings{
			DailyCalorieGoal: domain.DefaultCalorieGoal,
			Weight:           d.Weight,
			Height:           d.Height,
			Age:              d.Age,
			Gender:           domain.Gender(d.Gender),
			ActivityLevel:    domain.ActivityLevel(d.ActivityLevel),
		},
		UpdatedAt: d.UpdatedAt,
	}

	goal := d.DailyCalorieGoal
	if d.SchemaVersion == 0 {
		for _, g := range []*float64{d.DailyCalorieGoal, d.LegacyTargetCalories, d.LegacyTargetCaloriesCamel} {
			if g != nil && *g > 0 {
				goal = g
				break
			}
		}
		if st.ActivityLevel == "" {
			st.ActivityLevel = domain.ActivityLevel(d.LegacyActivityLevel)
		}
	}
	if goal != nil && *goal > 0 {
		st.DailyCalorieGoal = *goal
	}
	return st
}
