package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"calorietrack/internal/domain"
)

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

// DayTotals is the summary block of a remote daily report.
type DayTotals struct {
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFat      float64 `json:"totalFat"`
	MealCount     int     `json:"mealCount"`
}

// DailyReport is the remote view of one day.
type DailyReport struct {
	Date    string              `json:"date"`
	Meals   []domain.MealRecord `json:"meals"`
	Summary DayTotals           `json:"summary"`
}

// SignUp creates an account. The returned token is stored before SignUp
// returns.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	if displayName != "" {
		body["displayName"] = displayName
	}
	return c.authenticate(ctx, "/auth/signup", body)
}

// SignIn signs in. The returned token is stored before SignIn returns.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/signin", map[string]string{"email": email, "password": password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	if err := c.saveToken(ctx, out.Token); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignOut forgets the stored token. Tokens are stateless on the server.
func (c *Client) SignOut(ctx context.Context) error {
	return c.ClearToken(ctx)
}

// CurrentUser returns the account behind the stored token.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil,
		map[string]string{"currentPassword": current, "newPassword": next}, nil)
}

// SearchFoods searches the remote catalog.
func (c *Client) SearchFoods(ctx context.Context, query string) ([]domain.Food, error) {
	var out struct {
		Foods []domain.Food `json:"foods"`
	}
	if err := c.do(ctx, http.MethodGet, "/foods/search", url.Values{"query": {query}}, nil, &out); err != nil {
		return nil, err
	}
	return out.Foods, nil
}

// GetFood fetches one food.
func (c *Client) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	var out domain.Food
	if err := c.do(ctx, http.MethodGet, "/foods/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddFood stores a food remotely and returns its id.
func (c *Client) AddFood(ctx context.Context, food domain.Food) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/foods", nil, food, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// AddMeal upserts a meal record remotely and returns its id.
func (c *Client) AddMeal(ctx context.Context, meal domain.MealRecord) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/meals", nil, meal, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// GetMeals lists a user's meals between two YYYY-MM-DD dates, inclusive.
// Empty dates ask for the server default window.
func (c *Client) GetMeals(ctx context.Context, userID, startDate, endDate string) ([]domain.MealRecord, error) {
	var q url.Values
	if startDate != "" && endDate != "" {
		q = url.Values{"startDate": {startDate}, "endDate": {endDate}}
	}
	var out struct {
		Meals []domain.MealRecord `json:"meals"`
	}
	if err := c.do(ctx, http.MethodGet, "/meals/"+url.PathEscape(userID), q, nil, &out); err != nil {
		return nil, err
	}
	return out.Meals, nil
}

// DailySummary fetches the remote report of one UTC day.
func (c *Client) DailySummary(ctx context.Context, userID, date string) (*DailyReport, error) {
	var out DailyReport
	path := "/meals/" + url.PathEscape(userID) + "/daily/" + url.PathEscape(date)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMeal removes a remote meal record.
func (c *Client) DeleteMeal(ctx context.Context, userID, mealID string) error {
	path := "/meals/" + url.PathEscape(userID) + "/" + url.PathEscape(mealID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// GetSettings fetches the remote settings document.
func (c *Client) GetSettings(ctx context.Context, userID string) (*domain.StoredSettings, error) {
	var doc settingsDocument
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/settings", nil, nil, &doc); err != nil {
		return nil, err
	}
	st := doc.canonical()
	return &st, nil
}

// UpdateSettings applies u to the remote settings document.
func (c *Client) UpdateSettings(ctx context.Context, userID string, u domain.SettingsUpdate) (*domain.StoredSettings, error) {
	var out struct {
		Settings settingsDocument `json:"settings"`
	}
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(userID)+"/settings", nil, u, &out); err != nil {
		return nil, err
	}
	st := out.Settings.canonical()
	return &st, nil
}
