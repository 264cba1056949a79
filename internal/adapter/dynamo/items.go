package dynamo

import (
	"time"

	"calorietrack/internal/domain"
)

type foodItem struct {
	ID              string  `dynamodbav:"id"`
	Name            string  `dynamodbav:"name"`
	CaloriesPer100g float64 `dynamodbav:"caloriesPer100g"`
	Protein         float64 `dynamodbav:"protein"`
	Carbs           float64 `dynamodbav:"carbs"`
	Fat             float64 `dynamodbav:"fat"`
	Category        string  `dynamodbav:"category"`
	ImageURL        string  `dynamodbav:"imageUrl,omitempty"`
}

func (f foodItem) toDomain() domain.Food {
	return domain.Food(f)
}

// mealItem mirrors the meals table. Legacy rows may lack foodName and the
// nutrition fields.
type mealItem struct {
	UserID    string  `dynamodbav:"userId"`
	ID        string  `dynamodbav:"id"`
	FoodID    string  `dynamodbav:"foodId"`
	FoodName  string  `dynamodbav:"foodName"`
	Amount    float64 `dynamodbav:"amount"`
	Calories  float64 `dynamodbav:"calories"`
	Protein   float64 `dynamodbav:"protein"`
	Carbs     float64 `dynamodbav:"carbs"`
	Fat       float64 `dynamodbav:"fat"`
	MealType  string  `dynamodbav:"mealType"`
	Timestamp string  `dynamodbav:"timestamp"`
	CreatedAt string  `dynamodbav:"createdAt,omitempty"`
}

func newMealItem(m domain.MealRecord, now time.Time) mealItem {
	return mealItem{
		UserID:    m.UserID,
		ID:        m.ID,
		FoodID:    m.FoodID,
		FoodName:  m.FoodName,
		Amount:    m.Amount,
		Calories:  m.Calories,
		Protein:   m.Protein,
		Carbs:     m.Carbs,
		Fat:       m.Fat,
		MealType:  string(m.MealType),
		Timestamp: formatTimestamp(m.Timestamp),
		CreatedAt: formatTimestamp(now),
	}
}

func (m mealItem) toDomain() (domain.MealRecord, error) {
	ts, err := parseTimestamp(m.Timestamp)
	if err != nil {
		return domain.MealRecord{}, err
	}
	return domain.MealRecord{
		ID:        m.ID,
		UserID:    m.UserID,
		FoodID:    m.FoodID,
		FoodName:  m.FoodName,
		Amount:    m.Amount,
		Calories:  m.Calories,
		Protein:   m.Protein,
		Carbs:     m.Carbs,
		Fat:       m.Fat,
		Timestamp: ts,
		MealType:  domain.MealType(m.MealType),
	}, nil
}

type userItem struct {
	ID               string  `dynamodbav:"id"`
	Email            string  `dynamodbav:"email"`
	DisplayName      string  `dynamodbav:"displayName"`
	DailyCalorieGoal float64 `dynamodbav:"dailyCalorieGoal"`
	PasswordHash     string  `dynamodbav:"passwordHash"`
	CreatedAt        string  `dynamodbav:"createdAt"`
	UpdatedAt        string  `dynamodbav:"updatedAt"`
	LastLoginAt      string  `dynamodbav:"lastLoginAt,omitempty"`
}

func newUserItem(u domain.User) userItem {
	it := userItem{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		DailyCalorieGoal: u.DailyCalorieGoal,
		PasswordHash:     u.PasswordHash,
		CreatedAt:        formatTimestamp(u.CreatedAt),
		UpdatedAt:        formatTimestamp(u.UpdatedAt),
	}
	if u.LastLoginAt != nil {
		it.LastLoginAt = formatTimestamp(*u.LastLoginAt)
	}
	return it
}

func (u userItem) toDomain() (*domain.User, error) {
	created, err := parseTimestamp(u.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated, err := parseTimestamp(u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	out := &domain.User{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		DailyCalorieGoal: u.DailyCalorieGoal,
		PasswordHash:     u.PasswordHash,
		CreatedAt:        created,
		UpdatedAt:        updated,
	}
	if u.LastLoginAt != "" {
		t, err := parseTimestamp(u.LastLoginAt)
		if err != nil {
			return nil, err
		}
		out.LastLoginAt = &t
	}
	return out, nil
}

type settingsItem struct {
	UserID           string  `dynamodbav:"userId"`
	SchemaVersion    int     `dynamodbav:"schemaVersion"`
	DailyCalorieGoal float64 `dynamodbav:"dailyCalorieGoal"`
	Weight           float64 `dynamodbav:"weight,omitempty"`
	Height           float64 `dynamodbav:"height,omitempty"`
	Age              int     `dynamodbav:"age,omitempty"`
	Gender           string  `dynamodbav:"gender,omitempty"`
	ActivityLevel    string  `dynamodbav:"activityLevel,omitempty"`
	UpdatedAt        string  `dynamodbav:"updatedAt"`
}
