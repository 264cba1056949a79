package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Limits for user input.
const (
	MinAmountGrams    = 0.1
	MaxAmountGrams    = 10000
	MaxFoodNameLength = 100
	MinPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field failures. It is returned as an error only
// when non-empty.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "\n")
}

// Err returns v as an error, or nil when there are no failures.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ValidateFoodName requires a name of 1 to 100 characters.
func ValidateFoodName(name string) error {
	var errs ValidationErrors
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		errs = append(errs, FieldError{Field: "name", Message: "food name is required"})
	case n > MaxFoodNameLength:
		errs = append(errs, FieldError{
			Field:   "name",
			Message: fmt.Sprintf("food name must be between 1 and %d characters", MaxFoodNameLength),
		})
	}
	return errs.Err()
}

// ValidateAmount requires a finite amount in grams within the accepted range.
func ValidateAmount(grams float64) error {
	var errs ValidationErrors
	switch {
	case math.IsNaN(grams) || math.IsInf(grams, 0):
		errs = append(errs, FieldError{Field: "amount", Message: "amount must be a number"})
	case grams < MinAmountGrams || grams > MaxAmountGrams:
		errs = append(errs, FieldError{
			Field:   "amount",
			Message: fmt.Sprintf("amount must be between %g and %g", float64(MinAmountGrams), float64(MaxAmountGrams)),
		})
	}
	return errs.Err()
}

// ValidEmail reports whether email has a plausible address shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword reports whether password meets the minimum length.
func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// ValidateSettingsUpdate checks every field present in u.
func ValidateSettingsUpdate(u SettingsUpdate) error {
	var errs ValidationErrors
	if u.DailyCalorieGoal != nil && (*u.DailyCalorieGoal <= 0 || *u.DailyCalorieGoal > 10000) {
		errs = append(errs, FieldError{Field: "dailyCalorieGoal", Message: "daily calorie goal must be between 1 and 10000"})
	}
	if u.Weight != nil && (*u.Weight <= 0 || *u.Weight > 500) {
		errs = append(errs, FieldError{Field: "weight", Message: "weight must be between 0 and 500 kg"})
	}
	if u.Height != nil && (*u.Height <= 0 || *u.Height > 300) {
		errs = append(errs, FieldError{Field: "height", Message: "height must be between 0 and 300 cm"})
	}
	if u.Age != nil && (*u.Age <= 0 || *u.Age > 150) {
		errs = append(errs, FieldError{Field: "age", Message: "age must be between 1 and 150"})
	}
	if u.Gender != nil && !u.Gender.Valid() {
		errs = append(errs, FieldError{Field: "gender", Message: "gender must be male or female"})
	}
	if u.ActivityLevel != nil && !u.ActivityLevel.Valid() {
		errs = append(errs, FieldError{Field: "activityLevel", Message: "unknown activity level"})
	}
	return errs.Err()
}
