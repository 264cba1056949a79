package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"calorietrack/internal/app"
)

type contextKey string

const userContextKey contextKey = "user"

var errForbidden = errors.New("access to another user's data is not allowed")

// authMiddleware verifies the bearer token and stores its claims in the
// request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fixedUser != nil {
			ctx := context.WithValue(r.Context(), userContextKey, s.fixedUser)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, errors.New("authentication required"))
			return
		}

		claims, err := s.auth.VerifyToken(token)
		if errors.Is(err, app.ErrTokenExpired) || errors.Is(err, app.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSelf rejects requests whose {userId} path segment names a user other
// than the authenticated one.
func (s *Server) requireSelf(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("userId") != userID(r) {
			writeError(w, http.StatusForbidden, errForbidden)
			return
		}
		next(w, r)
	})
}

func userID(r *http.Request) string {
	claims, _ := r.Context().Value(userContextKey).(*app.Claims)
	if claims == nil {
		return ""
	}
	return claims.UserID
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs method, path, status and duration of each request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// withCORS sets the fixed CORS headers and answers preflight requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		next.ServeHTTP(w, r)
	})
}
