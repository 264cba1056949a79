package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"calorietrack/internal/adapter/sqlite"
	"calorietrack/internal/domain"
	"calorietrack/internal/logging"
)

func TestLogMeal_MirrorsForAccounts(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	var mirrored []domain.MealRecord
	remote := &fakeRemote{
		addMealFn: func(meal domain.MealRecord) (string, error) {
			mirrored = append(mirrored, meal)
			return meal.ID, nil
		},
	}

	tr := NewTracker(store, remote, fixedSession{account}, logging.Discard())
	rec, err := tr.LogMeal(ctx, "food-001", 200, domain.Lunch)
	if err != nil {
		t.Fatalf("LogMeal: %v", err)
	}
	tr.Wait()

	if rec.ID == "" || rec.Calories != 336 {
		t.Errorf("record = %+v", rec)
	}
	local, _ := store.GetMealRecord(ctx, rec.ID)
	if local == nil {
		t.Fatal("record not stored locally")
	}
	if len(mirrored) != 1 || mirrored[0].ID != rec.ID || mirrored[0].UserID != "u1" {
		t.Errorf("mirrored = %+v", mirrored)
	}
}

func TestLogMeal_GuestStaysLocal(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	tr := NewTracker(store, &fakeRemote{
		addMealFn: func(domain.MealRecord) (string, error) {
			t.Error("guest write mirrored")
			return "", nil
		},
	}, fixedSession{guest}, logging.Discard())

	if _, err := tr.LogMeal(ctx, "food-001", 100, domain.Snack); err != nil {
		t.Fatal(err)
	}
	tr.Wait()
}

func TestLogMeal_MirrorFailureIsNotReturned(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	tr := NewTracker(store, &fakeRemote{}, fixedSession{account}, logging.Discard())

	if _, err := tr.LogMeal(ctx, "food-001", 100, domain.Dinner); err != nil {
		t.Fatalf("LogMeal: %v", err)
	}
	tr.Wait()
}

func TestLogMeal_Validation(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(openStore(t), &fakeRemote{}, fixedSession{nil}, logging.Discard())

	tests := []struct {
		name     string
		foodID   string
		grams    float64
		mealType domain.MealType
		check    func(error) bool
	}{
		{"zero amount", "food-001", 0, domain.Lunch, isValidation},
		{"too much", "food-001", 20000, domain.Lunch, isValidation},
		{"bad meal type", "food-001", 100, "brunch", isValidation},
		{"unknown food", "food-999", 100, domain.Lunch, func(err error) bool { return errors.Is(err, ErrUnknownFood) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tr.LogMeal(ctx, tc.foodID, tc.grams, tc.mealType)
			if !tc.check(err) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func isValidation(err error) bool {
	var v domain.ValidationErrors
	return errors.As(err, &v)
}

func TestEditMealAmount(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	tr := NewTracker(store, &fakeRemote{}, fixedSession{nil}, logging.Discard())

	rec, err := tr.LogMeal(ctx, "food-001", 100, domain.Breakfast)
	if err != nil {
		t.Fatal(err)
	}
	edited, err := tr.EditMealAmount(ctx, rec.ID, 200)
	if err != nil {
		t.Fatalf("EditMealAmount: %v", err)
	}
	if edited.ID != rec.ID || edited.Calories != 336 || edited.MealType != domain.Breakfast || !edited.Timestamp.Equal(rec.Timestamp.Truncate(time.Millisecond)) {
		t.Errorf("edited = %+v", edited)
	}
	stored, _ := store.GetMealRecord(ctx, rec.ID)
	if stored == nil || stored.Amount != 200 {
		t.Errorf("stored = %+v", stored)
	}

	if _, err := tr.EditMealAmount(ctx, "missing", 100); !errors.Is(err, ErrUnknownMeal) {
		t.Errorf("missing record: err = %v", err)
	}
}

// brokenReplace fails every in-place rewrite of a meal record.
type brokenReplace struct{ *sqlite.Store }

func (brokenReplace) ReplaceMealRecord(context.Context, domain.MealRecord) error {
	return errors.New("disk full")
}

func TestEditMealAmount_FailedWriteKeepsRecord(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	rec, err := NewTracker(store, &fakeRemote{}, fixedSession{nil}, logging.Discard()).
		LogMeal(ctx, "food-001", 100, domain.Dinner)
	if err != nil {
		t.Fatal(err)
	}

	tr := NewTracker(brokenReplace{store}, &fakeRemote{}, fixedSession{nil}, logging.Discard())
	if _, err := tr.EditMealAmount(ctx, rec.ID, 300); err == nil {
		t.Fatal("expected error")
	}
	stored, err := store.GetMealRecord(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored == nil || stored.Amount != 100 || stored.Calories != rec.Calories {
		t.Errorf("stored = %+v, want the original record", stored)
	}
}

func TestEditMealAmount_FoodDeleted(t *testing.T) {
	rec := domain.MealRecord{FoodID: "custom_x", FoodName: "Stew", Amount: 200, Calories: 300, Protein: 20, Carbs: 10, Fat: 8}
	food := foodFromSnapshot(rec)
	n := domain.NutritionForAmount(food, 100)
	if n.Calories != 150 || n.Protein != 10 || n.Carbs != 5 || n.Fat != 4 {
		t.Errorf("nutrition = %+v", n)
	}
}

func TestCustomFoodLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	var mirrored []domain.Food
	tr := NewTracker(store, &fakeRemote{
		addFoodFn: func(f domain.Food) (string, error) {
			mirrored = append(mirrored, f)
			return f.ID, nil
		},
		addMealFn: func(m domain.MealRecord) (string, error) { return m.ID, nil },
	}, fixedSession{account}, logging.Discard())

	if _, err := tr.AddCustomFood(ctx, domain.Food{Name: "  "}); !isValidation(err) {
		t.Errorf("blank name: err = %v", err)
	}

	food, err := tr.AddCustomFood(ctx, domain.Food{Name: " Curry ", CaloriesPer100g: 150})
	if err != nil {
		t.Fatal(err)
	}
	if !domain.IsCustomFoodID(food.ID) || food.Name != "Curry" || food.Category != domain.DefaultCategory {
		t.Errorf("food = %+v", food)
	}
	if _, err := tr.LogMeal(ctx, food.ID, 100, domain.Dinner); err != nil {
		t.Fatal(err)
	}
	tr.Wait()
	if len(mirrored) != 1 || mirrored[0].ID != food.ID {
		t.Errorf("mirrored foods = %+v", mirrored)
	}

	if err := tr.DeleteFood(ctx, food.ID); err != nil {
		t.Fatal(err)
	}
	left, _ := store.MealRecordsSince(ctx, time.Time{})
	if len(left) != 0 {
		t.Errorf("meals left after cascade: %d", len(left))
	}
	if err := tr.DeleteFood(ctx, "food-001"); !errors.Is(err, sqlite.ErrDefaultFoodDeletion) {
		t.Errorf("default food: err = %v", err)
	}
}

func TestDeleteMealAndSaveSettings(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	var deleted []string
	var updates []domain.SettingsUpdate
	tr := NewTracker(store, &fakeRemote{
		addMealFn: func(m domain.MealRecord) (string, error) { return m.ID, nil },
		deleteMealFn: func(userID, mealID string) error {
			deleted = append(deleted, userID+"/"+mealID)
			return nil
		},
		updateSettingsFn: func(_ string, u domain.SettingsUpdate) (*domain.StoredSettings, error) {
			updates = append(updates, u)
			return &domain.StoredSettings{}, nil
		},
	}, fixedSession{account}, logging.Discard())

	rec, err := tr.LogMeal(ctx, "food-002", 100, domain.Lunch)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.DeleteMeal(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}

	age := 0
	if err := tr.SaveSettings(ctx, domain.SettingsUpdate{Age: &age}); !isValidation(err) {
		t.Errorf("invalid age: err = %v", err)
	}
	age = 35
	if err := tr.SaveSettings(ctx, domain.SettingsUpdate{Age: &age}); err != nil {
		t.Fatal(err)
	}
	tr.Wait()

	if len(deleted) != 1 || deleted[0] != "u1/"+rec.ID {
		t.Errorf("remote deletes = %v", deleted)
	}
	if len(updates) != 1 || updates[0].Age == nil || *updates[0].Age != 35 {
		t.Errorf("remote updates = %+v", updates)
	}
	st, _ := store.UserSettings(ctx)
	if st.Age != 35 {
		t.Errorf("local age = %d", st.Age)
	}
}
