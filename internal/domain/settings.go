package domain

import (
	"context"
	"time"
)

// Gender selects the BMR coefficient set.
type Gender string

// Genders.
const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

// Activity levels.
const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

// Valid reports whether l is one of the five known levels.
func (l ActivityLevel) Valid() bool {
	_, ok := activityMultipliers[l]
	return ok
}

// DefaultCalorieGoal is used when no goal has been stored.
const DefaultCalorieGoal = 2000

// SettingsSchemaVersion is the current version of the remote settings document.
const SettingsSchemaVersion = 1

// UserSettings is the single settings record of a user.
type UserSettings struct {
	DailyCalorieGoal float64       `json:"dailyCalorieGoal"`
	Weight           float64       `json:"weight,omitempty"`
	Height           float64       `json:"height,omitempty"`
	Age              int           `json:"age,omitempty"`
	Gender           Gender        `json:"gender,omitempty"`
	ActivityLevel    ActivityLevel `json:"activityLevel,omitempty"`
}

// DefaultSettings returns the settings a fresh device starts with.
func DefaultSettings() UserSettings {
	return UserSettings{
		DailyCalorieGoal: DefaultCalorieGoal,
		Weight:           70,
		Height:           170,
		Age:              30,
		Gender:           Male,
		ActivityLevel:    Moderate,
	}
}

// SettingsUpdate is a partial update; nil fields are left untouched.
type SettingsUpdate struct {
	DailyCalorieGoal *float64       `json:"dailyCalorieGoal,omitempty"`
	Weight           *float64       `json:"weight,omitempty"`
	Height           *float64       `json:"height,omitempty"`
	Age              *int           `json:"age,omitempty"`
	Gender           *Gender        `json:"gender,omitempty"`
	ActivityLevel    *ActivityLevel `json:"activityLevel,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u SettingsUpdate) Empty() bool {
	return u.DailyCalorieGoal == nil && u.Weight == nil && u.Height == nil &&
		u.Age == nil && u.Gender == nil && u.ActivityLevel == nil
}

// Apply returns s with the non-nil fields of u applied.
func (u SettingsUpdate) Apply(s UserSettings) UserSettings {
	if u.DailyCalorieGoal != nil {
		s.DailyCalorieGoal = *u.DailyCalorieGoal
	}
	if u.Weight != nil {
		s.Weight = *u.Weight
	}
	if u.Height != nil {
		s.Height = *u.Height
	}
	if u.Age != nil {
		s.Age = *u.Age
	}
	if u.Gender != nil {
		s.Gender = *u.Gender
	}
	if u.ActivityLevel != nil {
		s.ActivityLevel = *u.ActivityLevel
	}
	return s
}

// FullUpdate converts s into an update that overwrites every field.
func FullUpdate(s UserSettings) SettingsUpdate {
	return SettingsUpdate{
		DailyCalorieGoal: &s.DailyCalorieGoal,
		Weight:           &s.Weight,
		Height:           &s.Height,
		Age:              &s.Age,
		Gender:           &s.Gender,
		ActivityLevel:    &s.ActivityLevel,
	}
}

// StoredSettings is the versioned settings document kept by the remote API.
type StoredSettings struct {
	UserID        string `json:"id"`
	SchemaVersion int    `json:"schemaVersion"`
	UserSettings
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// SettingsRepository is the port for settings persistence on the remote API.
// GetSettings returns nil when the user has never stored settings.
type SettingsRepository interface {
	GetSettings(ctx context.Context, userID string) (*StoredSettings, error)
	PutSettings(ctx context.Context, settings StoredSettings) error
}
