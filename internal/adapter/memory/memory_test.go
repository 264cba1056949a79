package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"calorietrack/internal/domain"
)

func TestFoods(t *testing.T) {
	db := New()
	ctx := context.Background()

	for _, f := range domain.DefaultFoods() {
		if err := db.PutFood(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	found, err := db.SearchFoods(ctx, "rice")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].ID != "food-001" {
		t.Fatalf("expected rice only, got %+v", found)
	}

	found, _ = db.SearchFoods(ctx, "o")
	for i := 1; i < len(found); i++ {
		if found[i-1].Name > found[i].Name {
			t.Fatalf("results not sorted by name: %q before %q", found[i-1].Name, found[i].Name)
		}
	}

	f, err := db.GetFood(ctx, "food-404")
	if err != nil || f != nil {
		t.Fatalf("expected nil, nil for missing food, got %v, %v", f, err)
	}
}

func TestMeals(t *testing.T) {
	db := New()
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	put := func(id, user string, at time.Time, cal float64) {
		t.Helper()
		if err := db.PutMeal(ctx, domain.MealRecord{ID: id, UserID: user, FoodID: "food-001", Amount: 100, Calories: cal, Timestamp: at, MealType: domain.Lunch}); err != nil {
			t.Fatal(err)
		}
	}
	put("m1", "u1", day.Add(8*time.Hour), 100)
	put("m2", "u1", day.Add(20*time.Hour), 200)
	put("m3", "u1", day.Add(24*time.Hour), 300) // next day
	put("m4", "u2", day.Add(9*time.Hour), 400)  // other user
	put("m1", "u1", day.Add(8*time.Hour), 150)  // upsert

	meals, err := db.MealsBetween(ctx, "u1", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(meals) != 2 || meals[0].ID != "m1" || meals[1].ID != "m2" {
		t.Fatalf("unexpected meals %+v", meals)
	}
	if meals[0].Calories != 150 {
		t.Fatalf("expected upsert to replace, got %v", meals[0].Calories)
	}

	if err := db.DeleteMeal(ctx, "u2", "m1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting another user's meal, got %v", err)
	}
	if err := db.DeleteMeal(ctx, "u1", "m1"); err != nil {
		t.Fatal(err)
	}
	meals, _ = db.MealsBetween(ctx, "u1", day, day.Add(24*time.Hour))
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal after delete, got %d", len(meals))
	}
}

func TestUsers(t *testing.T) {
	db := New()
	ctx := context.Background()

	u := domain.User{ID: "u1", Email: "a@b.co", DisplayName: "a"}
	if err := db.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	if err := db.Create(ctx, domain.User{ID: "u2", Email: "a@b.co"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := db.GetByEmail(ctx, "a@b.co")
	if err != nil || got == nil || got.ID != "u1" {
		t.Fatalf("GetByEmail = %v, %v", got, err)
	}

	// Returned users are copies.
	got.DisplayName = "changed"
	again, _ := db.GetByID(ctx, "u1")
	if again.DisplayName != "a" {
		t.Fatal("mutation leaked into store")
	}

	u.DisplayName = "Aki"
	if err := db.Update(ctx, u); err != nil {
		t.Fatal(err)
	}
	again, _ = db.GetByID(ctx, "u1")
	if again.DisplayName != "Aki" {
		t.Fatalf("update not stored: %+v", again)
	}
	if err := db.Update(ctx, domain.User{ID: "ghost"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	db := New()
	ctx := context.Background()

	s, err := db.GetSettings(ctx, "u1")
	if err != nil || s != nil {
		t.Fatalf("expected nil, nil, got %v, %v", s, err)
	}

	want := domain.StoredSettings{UserID: "u1", SchemaVersion: 1, UserSettings: domain.DefaultSettings()}
	if err := db.PutSettings(ctx, want); err != nil {
		t.Fatal(err)
	}
	s, _ = db.GetSettings(ctx, "u1")
	if *s != want {
		t.Fatalf("got %+v, want %+v", *s, want)
	}
}
