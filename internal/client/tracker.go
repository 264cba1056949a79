package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"calorietrack/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrUnknownFood is returned when a meal names a food the device does
	// not have.
	ErrUnknownFood = errors.New("unknown food")
	// ErrUnknownMeal is returned when editing a meal record that does not
	// exist.
	ErrUnknownMeal = errors.New("unknown meal record")
)

// TrackerStore is the device database as seen by the tracker.
type TrackerStore interface {
	GetFood(ctx context.Context, id string) (*domain.Food, error)
	AddCustomFood(ctx context.Context, food domain.Food) (string, error)
	DeleteFood(ctx context.Context, id string) error
	AddMealRecord(ctx context.Context, rec domain.MealRecord) (string, error)
	GetMealRecord(ctx context.Context, id string) (*domain.MealRecord, error)
	ReplaceMealRecord(ctx context.Context, rec domain.MealRecord) error
	DeleteMealRecord(ctx context.Context, id string) error
	UpdateUserSettings(ctx context.Context, u domain.SettingsUpdate) error
}

// Mirror receives copies of local writes.
type Mirror interface {
	AddMeal(ctx context.Context, meal domain.MealRecord) (string, error)
	DeleteMeal(ctx context.Context, userID, mealID string) error
	UpdateSettings(ctx context.Context, userID string, u domain.SettingsUpdate) (*domain.StoredSettings, error)
	AddFood(ctx context.Context, food domain.Food) (string, error)
}

// Tracker performs the user's save actions. Every write lands in the local
// store first; for signed-in accounts it is then copied to the remote API in
// the background, where failures are only logged.
type Tracker struct {
	store   TrackerStore
	remote  Mirror
	session Session
	log     *slog.Logger
	now     func() time.Time

	pending sync.WaitGroup
}

// NewTracker creates a Tracker.
func NewTracker(store TrackerStore, remote Mirror, session Session, logger *slog.Logger) *Tracker {
	return &Tracker{store: store, remote: remote, session: session, log: logger, now: time.Now}
}

// Wait blocks until all background copies have finished.
func (t *Tracker) Wait() {
	t.pending.Wait()
}

// mirror runs fn in the background when an account is signed in. fn gets a
// context detached from the caller's cancellation.
func (t *Tracker) mirror(ctx context.Context, what string, fn func(ctx context.Context, userID string) error) {
	user := t.session.CurrentUser(ctx)
	if user == nil || user.IsGuest {
		return
	}
	bg := context.WithoutCancel(ctx)
	t.pending.Go(func() {
		if err := fn(bg, user.ID); err != nil {
			t.log.Warn("mirror write", "op", what, "user_id", user.ID, "error", err)
		}
	})
}

// LogMeal records grams of a food eaten now.
func (t *Tracker) LogMeal(ctx context.Context, foodID string, grams float64, mealType domain.MealType) (*domain.MealRecord, error) {
	if err := domain.ValidateAmount(grams); err != nil {
		return nil, err
	}
	if !mealType.Valid() {
		return nil, domain.ValidationErrors{{Field: "mealType", Message: "mealType must be breakfast, lunch, dinner or snack"}}
	}
	food, err := t.store.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFood, foodID)
	}

	rec := domain.NewMealRecord(*food, grams, mealType, t.now())
	rec.ID = uuid.NewString()
	if _, err := t.store.AddMealRecord(ctx, rec); err != nil {
		return nil, err
	}

	t.mirror(ctx, "add meal", func(ctx context.Context, userID string) error {
		m := rec
		m.UserID = userID
		_, err := t.remote.AddMeal(ctx, m)
		return err
	})
	return &rec, nil
}

// EditMealAmount recomputes a record for a new amount. The record keeps its
// id, time and meal type. The remote copy is not changed.
func (t *Tracker) EditMealAmount(ctx context.Context, id string, grams float64) (*domain.MealRecord, error) {
	if err := domain.ValidateAmount(grams); err != nil {
		return nil, err
	}
	old, err := t.store.GetMealRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMeal, id)
	}

	food, err := t.store.GetFood(ctx, old.FoodID)
	if err != nil {
		return nil, err
	}
	if food == nil {
		f := foodFromSnapshot(*old)
		food = &f
	}

	rec := domain.NewMealRecord(*food, grams, old.MealType, old.Timestamp)
	rec.ID = old.ID
	if err := t.store.ReplaceMealRecord(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// foodFromSnapshot recovers per-100g values from a record whose food is gone.
func foodFromSnapshot(rec domain.MealRecord) domain.Food {
	f := domain.Food{ID: rec.FoodID, Name: rec.FoodName}
	if rec.Amount > 0 {
		scale := 100 / rec.Amount
		f.CaloriesPer100g = rec.Calories * scale
		f.Protein = rec.Protein * scale
		f.Carbs = rec.Carbs * scale
		f.Fat = rec.Fat * scale
	}
	return f
}

// DeleteMeal removes a record locally and remotely.
func (t *Tracker) DeleteMeal(ctx context.Context, id string) error {
	if err := t.store.DeleteMealRecord(ctx, id); err != nil {
		return err
	}
	t.mirror(ctx, "delete meal", func(ctx context.Context, userID string) error {
		return t.remote.DeleteMeal(ctx, userID, id)
	})
	return nil
}

// SaveSettings applies a partial settings update.
func (t *Tracker) SaveSettings(ctx context.Context, u domain.SettingsUpdate) error {
	if err := domain.ValidateSettingsUpdate(u); err != nil {
		return err
	}
	if u.Empty() {
		return nil
	}
	if err := t.store.UpdateUserSettings(ctx, u); err != nil {
		return err
	}
	t.mirror(ctx, "update settings", func(ctx context.Context, userID string) error {
		_, err := t.remote.UpdateSettings(ctx, userID, u)
		return err
	})
	return nil
}

// AddCustomFood stores a user-authored food and returns it with its new id.
func (t *Tracker) AddCustomFood(ctx context.Context, food domain.Food) (*domain.Food, error) {
	food.Name = strings.TrimSpace(food.Name)
	if err := domain.ValidateFoodName(food.Name); err != nil {
		return nil, err
	}
	if food.CaloriesPer100g < 0 || food.Protein < 0 || food.Carbs < 0 || food.Fat < 0 {
		return nil, domain.ValidationErrors{{Field: "nutrition", Message: "nutrition values must not be negative"}}
	}
	if food.Category == "" {
		food.Category = domain.DefaultCategory
	}

	id, err := t.store.AddCustomFood(ctx, food)
	if err != nil {
		return nil, err
	}
	food.ID = id

	t.mirror(ctx, "add food", func(ctx context.Context, _ string) error {
		_, err := t.remote.AddFood(ctx, food)
		return err
	})
	return &food, nil
}

// DeleteFood removes a custom food and its meal records from the device.
// Foods are never deleted remotely.
func (t *Tracker) DeleteFood(ctx context.Context, id string) error {
	return t.store.DeleteFood(ctx, id)
}
