// Package memory implements the remote repositories in memory for
// development and testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"calorietrack/internal/domain"
)

type mealKey struct {
	userID string
	id     string
}

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	foods    map[string]domain.Food
	meals    map[mealKey]domain.MealRecord
	users    map[string]domain.User
	settings map[string]domain.StoredSettings
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		foods:    make(map[string]domain.Food),
		meals:    make(map[mealKey]domain.MealRecord),
		users:    make(map[string]domain.User),
		settings: make(map[string]domain.StoredSettings),
	}
}

// Ensure interfaces are met.
var _ domain.FoodRepository = (*DB)(nil)
var _ domain.MealRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SettingsRepository = (*DB)(nil)

// --- FoodRepository ---

// SearchFoods returns foods whose name contains query, ordered by name.
func (db *DB) SearchFoods(ctx context.Context, query string) ([]domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var result []domain.Food
	for _, f := range db.foods {
		if strings.Contains(f.Name, query) {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// GetFood retrieves a food by id.
func (db *DB) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	f, ok := db.foods[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// PutFood inserts or replaces a food.
func (db *DB) PutFood(ctx context.Context, food domain.Food) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.foods[food.ID] = food
	return nil
}

// --- MealRepository ---

// PutMeal inserts or replaces a meal record.
func (db *DB) PutMeal(ctx context.Context, meal domain.MealRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	meal.Timestamp = meal.Timestamp.UTC()
	db.meals[mealKey{meal.UserID, meal.ID}] = meal
	return nil
}

// MealsBetween lists a user's meals with start <= timestamp < end, oldest
// first.
func (db *DB) MealsBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.MealRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var result []domain.MealRecord
	for k, m := range db.meals {
		if k.userID != userID {
			continue
		}
		if !m.Timestamp.Before(start) && m.Timestamp.Before(end) {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].ID < result[j].ID
		}
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// DeleteMeal removes a meal record.
func (db *DB) DeleteMeal(ctx context.Context, userID, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := mealKey{userID, id}
	if _, ok := db.meals[k]; !ok {
		return domain.ErrNotFound
	}
	delete(db.meals, k)
	return nil
}

// --- UserRepository ---

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, user domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	db.users[user.ID] = user
	return nil
}

// Update replaces a stored user.
func (db *DB) Update(ctx context.Context, user domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	db.users[user.ID] = user
	return nil
}

// --- SettingsRepository ---

// GetSettings returns the stored settings of a user.
func (db *DB) GetSettings(ctx context.Context, userID string) (*domain.StoredSettings, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	s, ok := db.settings[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// PutSettings replaces the settings of a user.
func (db *DB) PutSettings(ctx context.Context, s domain.StoredSettings) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.settings[s.UserID] = s
	return nil
}
