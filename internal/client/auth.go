// Package client holds the device-side use cases: the identity state
// machine, cloud sync and local-first meal tracking.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"calorietrack/internal/adapter/apiclient"
	"calorietrack/internal/domain"
)

// Storage keys of the persisted session.
const (
	keyCurrentUser    = "currentUser"
	keyGuestMode      = "isGuestMode"
	keyLastLoginEmail = "lastLoginEmail"
)

// GuestDisplayName is the display name of locally generated guest users.
const GuestDisplayName = "Guest user"

// ErrorKind classifies an AuthError for display.
type ErrorKind string

// Auth error kinds.
const (
	InvalidEmail       ErrorKind = "invalid_email"
	WeakPassword       ErrorKind = "weak_password"
	EmailInUse         ErrorKind = "email_in_use"
	InvalidCredentials ErrorKind = "invalid_credentials"
	Network            ErrorKind = "network"
	Unknown            ErrorKind = "unknown"
)

var kindMessages = map[ErrorKind]string{
	InvalidEmail:       "The email address is not valid.",
	WeakPassword:       "The password must be at least 6 characters.",
	EmailInUse:         "This email address is already in use.",
	InvalidCredentials: "The email address or password is incorrect.",
	Network:            "A network error occurred.",
	Unknown:            "Something went wrong.",
}

// AuthError is returned by AuthService operations. Message is meant for the
// user; Err is the underlying failure.
type AuthError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

func newAuthError(kind ErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Message: kindMessages[kind], Err: err}
}

// classifyAuthError maps a failure of the remote API to an AuthError. The
// response status decides when it is conclusive; otherwise the server message
// is matched.
func classifyAuthError(err error) *AuthError {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	if errors.Is(err, apiclient.ErrNetwork) {
		return newAuthError(Network, err)
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusConflict:
			return newAuthError(EmailInUse, err)
		case http.StatusUnauthorized:
			return newAuthError(InvalidCredentials, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already"):
		return newAuthError(EmailInUse, err)
	case strings.Contains(msg, "incorrect"):
		return newAuthError(InvalidCredentials, err)
	case strings.Contains(msg, "network"):
		return newAuthError(Network, err)
	case strings.Contains(msg, "password"):
		return newAuthError(WeakPassword, err)
	case strings.Contains(msg, "email"):
		return newAuthError(InvalidEmail, err)
	}
	return newAuthError(Unknown, err)
}

// RemoteAuth is the part of the API client the auth service needs.
type RemoteAuth interface {
	SignUp(ctx context.Context, email, password, displayName string) (*apiclient.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*apiclient.AuthResponse, error)
	SignOut(ctx context.Context) error
}

// AuthService tracks who is using the device: nobody, a local guest, or an
// authenticated account. The session survives restarts through the
// key-value store.
type AuthService struct {
	remote RemoteAuth
	kv     apiclient.KeyValue
	log    *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	user     *domain.User
	restored bool

	observers Observers[*domain.User]
}

// NewAuthService creates an AuthService. The persisted session is read on
// first use.
func NewAuthService(remote RemoteAuth, kv apiclient.KeyValue, logger *slog.Logger) *AuthService {
	return &AuthService{remote: remote, kv: kv, log: logger, now: time.Now}
}

// restore loads the persisted session once. A token with a stored user means
// an account session; the guest flag with a stored user means a guest. Any
// other combination is signed out.
func (s *AuthService) restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		return
	}
	s.restored = true

	user, err := s.readSession(ctx)
	if err != nil {
		s.log.Error("restore session", "error", err)
		return
	}
	s.user = user
}

func (s *AuthService) readSession(ctx context.Context) (*domain.User, error) {
	token, _, err := s.kv.Get(ctx, apiclient.TokenKey)
	if err != nil {
		return nil, err
	}
	raw, hasUser, err := s.kv.Get(ctx, keyCurrentUser)
	if err != nil {
		return nil, err
	}
	guest, _, err := s.kv.Get(ctx, keyGuestMode)
	if err != nil {
		return nil, err
	}
	if !hasUser || (token == "" && guest != "true") {
		return nil, nil
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return &u, nil
}

// CurrentUser returns a copy of the current user, or nil when signed out.
func (s *AuthService) CurrentUser(ctx context.Context) *domain.User {
	s.restore(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.user)
}

// IsGuest reports whether the current user is a local guest.
func (s *AuthService) IsGuest(ctx context.Context) bool {
	u := s.CurrentUser(ctx)
	return u != nil && u.IsGuest
}

// LastLoginEmail returns the email of the last successful sign-in or
// sign-up, if any.
func (s *AuthService) LastLoginEmail(ctx context.Context) (string, error) {
	v, _, err := s.kv.Get(ctx, keyLastLoginEmail)
	return v, err
}

// OnAuthStateChanged registers fn for every change of the current user. fn
// is also called once right away, after the persisted session is restored.
func (s *AuthService) OnAuthStateChanged(ctx context.Context, fn func(*domain.User)) (unsubscribe func()) {
	unsubscribe = s.observers.Subscribe(fn)
	fn(s.CurrentUser(ctx))
	return unsubscribe
}

// StartAsGuest creates and persists a local guest identity. No network call
// is made.
func (s *AuthService) StartAsGuest(ctx context.Context) (*domain.User, error) {
	s.restore(ctx)
	guest := domain.User{
		ID:               fmt.Sprintf("guest_%d", s.now().UnixMilli()),
		DisplayName:      GuestDisplayName,
		DailyCalorieGoal: domain.DefaultCalorieGoal,
		IsGuest:          true,
	}
	if err := s.storeUser(ctx, guest); err != nil {
		return nil, newAuthError(Unknown, err)
	}
	if err := s.kv.Set(ctx, keyGuestMode, "true"); err != nil {
		return nil, newAuthError(Unknown, err)
	}
	s.setUser(&guest)
	return copyUser(&guest), nil
}

// SignInWithEmail signs in to an existing account.
func (s *AuthService) SignInWithEmail(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if !domain.ValidEmail(email) {
		return nil, newAuthError(InvalidEmail, nil)
	}
	resp, err := s.remote.SignIn(ctx, email, password)
	if err != nil {
		return nil, classifyAuthError(err)
	}
	return s.completeSignIn(ctx, email, resp.User)
}

// SignUpWithEmail creates an account and signs in to it.
func (s *AuthService) SignUpWithEmail(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	switch {
	case !domain.ValidEmail(email):
		return nil, newAuthError(InvalidEmail, nil)
	case !domain.ValidPassword(password):
		return nil, newAuthError(WeakPassword, nil)
	}
	resp, err := s.remote.SignUp(ctx, email, password, displayName)
	if err != nil {
		return nil, classifyAuthError(err)
	}
	return s.completeSignIn(ctx, email, resp.User)
}

// ConvertGuestToUser signs up from a guest session. Pushing the guest's
// local data afterwards is up to the caller.
func (s *AuthService) ConvertGuestToUser(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	return s.SignUpWithEmail(ctx, email, password, displayName)
}

func (s *AuthService) completeSignIn(ctx context.Context, email string, user domain.User) (*domain.User, error) {
	s.restore(ctx)
	user.IsGuest = false
	if err := s.kv.Delete(ctx, keyGuestMode); err != nil {
		return nil, newAuthError(Unknown, err)
	}
	if err := s.storeUser(ctx, user); err != nil {
		return nil, newAuthError(Unknown, err)
	}
	if err := s.kv.Set(ctx, keyLastLoginEmail, email); err != nil {
		return nil, newAuthError(Unknown, err)
	}
	s.setUser(&user)
	return copyUser(&user), nil
}

// SignOut ends the current session, guest or account. The remote token is
// only dropped for account sessions.
func (s *AuthService) SignOut(ctx context.Context) error {
	if !s.IsGuest(ctx) {
		if err := s.remote.SignOut(ctx); err != nil {
			return newAuthError(Unknown, err)
		}
	}
	for _, key := range []string{keyCurrentUser, keyGuestMode, apiclient.TokenKey} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return newAuthError(Unknown, err)
		}
	}
	s.setUser(nil)
	return nil
}

func (s *AuthService) storeUser(ctx context.Context, u domain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyCurrentUser, string(b))
}

func (s *AuthService) setUser(u *domain.User) {
	s.mu.Lock()
	s.user = copyUser(u)
	s.mu.Unlock()
	s.observers.Notify(copyUser(u))
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
