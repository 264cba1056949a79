package adapthttp

import (
	"log/slog"
	"net/http"

	"calorietrack/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig enables optional single sign-on.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth     *app.AuthService
	foods    *app.FoodService
	meals    *app.MealService
	settings *app.SettingsService
	log      *slog.Logger

	oidcConfig OIDCConfig

	// fixedUser bypasses bearer verification when set (tests).
	fixedUser *app.Claims
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, foods *app.FoodService, meals *app.MealService, settings *app.SettingsService, logger *slog.Logger) *Server {
	return &Server{auth: auth, foods: foods, meals: meals, settings: settings, log: logger}
}

// WithOIDC enables the SSO endpoints.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// WithoutAuth treats every request as authenticated for userID.
func (s *Server) WithoutAuth(userID string) *Server {
	s.fixedUser = &app.Claims{UserID: userID}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("POST /auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /auth/signin", s.handleSignIn)
	mux.Handle("GET /auth/me", s.authMiddleware(http.HandlerFunc(s.handleMe)))
	mux.Handle("POST /auth/change-password", s.authMiddleware(http.HandlerFunc(s.handleChangePassword)))
	mux.HandleFunc("GET /auth/config", s.handleConfig)
	mux.HandleFunc("GET /auth/sso/login", s.handleSSOLogin)
	mux.HandleFunc("GET /auth/sso/callback", s.handleSSOCallback)

	mux.HandleFunc("GET /foods/search", s.handleFoodSearch)
	mux.HandleFunc("GET /foods/{id}", s.handleFoodGet)
	mux.Handle("POST /foods", s.authMiddleware(http.HandlerFunc(s.handleFoodAdd)))

	mux.Handle("POST /meals", s.authMiddleware(http.HandlerFunc(s.handleMealAdd)))
	mux.Handle("GET /meals/{userId}", s.authMiddleware(s.requireSelf(s.handleMealList)))
	mux.Handle("GET /meals/{userId}/daily/{date}", s.authMiddleware(s.requireSelf(s.handleDailySummary)))
	mux.Handle("DELETE /meals/{userId}/{mealId}", s.authMiddleware(s.requireSelf(s.handleMealDelete)))

	mux.Handle("GET /users/{userId}/settings", s.authMiddleware(s.requireSelf(s.handleSettingsGet)))
	mux.Handle("PUT /users/{userId}/settings", s.authMiddleware(s.requireSelf(s.handleSettingsPut)))

	return s.loggingMiddleware(withCORS(mux))
}
