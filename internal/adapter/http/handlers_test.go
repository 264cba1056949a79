package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adapthttp "calorietrack/internal/adapter/http"
	"calorietrack/internal/adapter/memory"
	"calorietrack/internal/app"
	"calorietrack/internal/domain"
	"calorietrack/internal/logging"
)

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

type testEnv struct {
	ts   *httptest.Server
	db   *memory.DB
	auth *app.AuthService
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	db := memory.New()
	for _, f := range domain.DefaultFoods() {
		if err := db.PutFood(context.Background(), f); err != nil {
			t.Fatal(err)
		}
	}

	auth := app.NewAuthService(db, []byte("test-secret"), time.Hour)
	srv := adapthttp.New(
		auth,
		app.NewFoodService(db),
		app.NewMealService(db, db),
		app.NewSettingsService(db),
		logging.Discard(),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts, db: db, auth: auth}
}

// signUp registers an account and returns its id and bearer token.
func (e *testEnv) signUp(t *testing.T, email string) (string, string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"email": email, "password": "secret123",
	})
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	return user["id"].(string), body["token"].(string)
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, e.ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected CORS origin *, got %q", got)
	}
	body := decodeBody(t, resp)
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
}

func TestPreflight(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodOptions, "/meals/anyone/daily/2025-03-01", "", nil)
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != "GET,POST,PUT,DELETE,OPTIONS" {
		t.Errorf("allow-methods = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); got != "Content-Type,Authorization" {
		t.Errorf("allow-headers = %q", got)
	}
	if body := decodeBody(t, resp); len(body) != 0 {
		t.Errorf("expected empty object, got %v", body)
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	env := newTestServer(t)
	env.signUp(t, "taro@example.com")

	tests := []struct {
		name       string
		path       string
		payload    map[string]any
		wantStatus int
	}{
		{"duplicate signup", "/auth/signup", map[string]any{"email": "taro@example.com", "password": "secret123"}, http.StatusConflict},
		{"short password", "/auth/signup", map[string]any{"email": "new@example.com", "password": "123"}, http.StatusBadRequest},
		{"bad email", "/auth/signup", map[string]any{"email": "nope", "password": "secret123"}, http.StatusBadRequest},
		{"unknown field", "/auth/signup", map[string]any{"email": "x@example.com", "password": "secret123", "admin": true}, http.StatusBadRequest},
		{"signin ok", "/auth/signin", map[string]any{"email": "taro@example.com", "password": "secret123"}, http.StatusOK},
		{"signin wrong password", "/auth/signin", map[string]any{"email": "taro@example.com", "password": "wrong-pass"}, http.StatusUnauthorized},
		{"signin unknown email", "/auth/signin", map[string]any{"email": "ghost@example.com", "password": "secret123"}, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, tc.path, "", tc.payload)
			defer resp.Body.Close() //nolint:errcheck

			body := decodeBody(t, resp)
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d; body: %v", tc.wantStatus, resp.StatusCode, body)
			}
			if tc.wantStatus == http.StatusOK {
				if _, ok := body["token"].(string); !ok {
					t.Fatal("response missing 'token'")
				}
				user := body["user"].(map[string]any)
				if _, leaked := user["passwordHash"]; leaked {
					t.Fatal("password hash must not be serialized")
				}
			} else if _, ok := body["error"]; !ok {
				t.Fatal("error response missing 'error' field")
			}
		})
	}
}

func TestAuthMe(t *testing.T) {
	env := newTestServer(t)
	id, token := env.signUp(t, "hanako@example.com")

	resp := env.do(t, http.MethodGet, "/auth/me", token, nil)
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	user := decodeBody(t, resp)["user"].(map[string]any)
	if user["id"] != id || user["displayName"] != "hanako" {
		t.Errorf("unexpected user %v", user)
	}

	for _, bad := range []string{"", "garbage"} {
		resp := env.do(t, http.MethodGet, "/auth/me", bad, nil)
		resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("token %q: expected 401, got %d", bad, resp.StatusCode)
		}
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signUp(t, "jiro@example.com")

	resp := env.do(t, http.MethodPost, "/auth/change-password", token, map[string]any{
		"currentPassword": "wrong-pass", "newPassword": "another1",
	})
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong current: expected 401, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/auth/change-password", token, map[string]any{
		"currentPassword": "secret123", "newPassword": "another1",
	})
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/auth/signin", "", map[string]any{
		"email": "jiro@example.com", "password": "another1",
	})
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signin with new password: expected 200, got %d", resp.StatusCode)
	}
}

func TestFoodEndpoints(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signUp(t, "cook@example.com")

	resp := env.do(t, http.MethodGet, "/foods/search?query=rice", "", nil)
	body := decodeBody(t, resp)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", resp.StatusCode)
	}
	if foods := body["foods"].([]any); len(foods) == 0 {
		t.Fatal("expected rice in the catalog")
	}

	resp = env.do(t, http.MethodGet, "/foods/search?query=", "", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty query: expected 400, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/foods/food-001", "", nil)
	food := decodeBody(t, resp)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK || food["id"] != "food-001" {
		t.Fatalf("get: status %d body %v", resp.StatusCode, food)
	}

	resp = env.do(t, http.MethodGet, "/foods/food-999", "", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing food: expected 404, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/foods", "", map[string]any{"name": "Onigiri", "caloriesPer100g": 179})
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous add: expected 401, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/foods", token, map[string]any{"name": "Onigiri", "caloriesPer100g": 179, "carbs": 39.4})
	created := decodeBody(t, resp)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d; body %v", resp.StatusCode, created)
	}
	id, _ := created["id"].(string)
	if !domain.IsCustomFoodID(id) {
		t.Errorf("expected custom id, got %q", id)
	}
}

func TestMealLifecycle(t *testing.T) {
	env := newTestServer(t)
	userID, token := env.signUp(t, "eater@example.com")
	day := "2025-03-01"

	rice, _ := env.db.GetFood(context.Background(), "food-001")
	meal := domain.NewMealRecord(*rice, 200, domain.Lunch, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	meal.ID = "meal-1"

	// Posting the same id twice upserts.
	for range 2 {
		resp := env.do(t, http.MethodPost, "/meals", token, meal)
		body := decodeBody(t, resp)
		resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusCreated || body["id"] != "meal-1" {
			t.Fatalf("add: status %d body %v", resp.StatusCode, body)
		}
	}

	resp := env.do(t, http.MethodGet, "/meals/"+userID+"/daily/"+day, token, nil)
	body := decodeBody(t, resp)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", resp.StatusCode)
	}
	summary := body["summary"].(map[string]any)
	if summary["mealCount"] != 1.0 || summary["totalCalories"] != 336.0 {
		t.Errorf("unexpected summary %v", summary)
	}

	resp = env.do(t, http.MethodGet, "/meals/"+userID+"?startDate="+day+"&endDate="+day, token, nil)
	body = decodeBody(t, resp)
	resp.Body.Close() //nolint:errcheck
	if meals := body["meals"].([]any); len(meals) != 1 {
		t.Errorf("expected 1 meal in range, got %d", len(meals))
	}

	resp = env.do(t, http.MethodDelete, "/meals/"+userID+"/meal-1", token, nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodDelete, "/meals/"+userID+"/meal-1", token, nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestForeignUserRejected(t *testing.T) {
	env := newTestServer(t)
	_, token := env.signUp(t, "alice@example.com")
	otherID, _ := env.signUp(t, "bob@example.com")

	paths := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/meals/" + otherID + "/daily/2025-03-01", nil},
		{http.MethodGet, "/users/" + otherID + "/settings", nil},
		{http.MethodPut, "/users/" + otherID + "/settings", map[string]any{"dailyCalorieGoal": 1500}},
		{http.MethodPost, "/meals", map[string]any{"userId": otherID, "foodId": "food-001", "amount": 100, "mealType": "lunch"}},
	}
	for _, p := range paths {
		resp := env.do(t, p.method, p.path, token, p.body)
		resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("%s %s: expected 403, got %d", p.method, p.path, resp.StatusCode)
		}
	}
}

func TestSettingsEndpoints(t *testing.T) {
	env := newTestServer(t)
	userID, token := env.signUp(t, "fit@example.com")
	path := "/users/" + userID + "/settings"

	resp := env.do(t, http.MethodGet, path, token, nil)
	body := decodeBody(t, resp)
	resp.Body.Close() //nolint:errcheck
	if body["dailyCalorieGoal"] != 2000.0 || body["id"] != userID {
		t.Fatalf("default settings = %v", body)
	}

	resp = env.do(t, http.MethodPut, path, token, map[string]any{"dailyCalorieGoal": 1800, "activityLevel": "light"})
	body = decodeBody(t, resp)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put: expected 200, got %d; body %v", resp.StatusCode, body)
	}
	settings := body["settings"].(map[string]any)
	if settings["dailyCalorieGoal"] != 1800.0 || settings["schemaVersion"] != 1.0 {
		t.Errorf("unexpected settings %v", settings)
	}

	resp = env.do(t, http.MethodPut, path, token, map[string]any{"activityLevel": "couch"})
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid level: expected 400, got %d", resp.StatusCode)
	}
}

func TestWithoutAuth(t *testing.T) {
	db := memory.New()
	srv := adapthttp.New(
		app.NewAuthService(db, []byte("x"), time.Hour),
		app.NewFoodService(db),
		app.NewMealService(db, db),
		app.NewSettingsService(db),
		logging.Discard(),
	).WithoutAuth("u-fixed")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/users/u-fixed/settings")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSSODisabled(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodGet, "/auth/config", "", nil)
	body := decodeBody(t, resp)
	resp.Body.Close() //nolint:errcheck
	if body["ssoEnabled"] != false {
		t.Errorf("expected ssoEnabled=false, got %v", body["ssoEnabled"])
	}

	resp = env.do(t, http.MethodGet, "/auth/sso/login", "", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
