// Package app holds the application services and business logic of the
// remote API.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"calorietrack/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	// ErrWrongPassword indicates that the current password given for a change was incorrect.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrInvalidToken indicates a bearer token that cannot be verified.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates a bearer token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// passwordCost is the bcrypt work factor for stored password hashes.
const passwordCost = 10

// Claims are carried by bearer tokens.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService handles accounts and bearer tokens.
type AuthService struct {
	users  domain.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService creates a new authentication service signing tokens with
// secret that stay valid for ttl.
func NewAuthService(users domain.UserRepository, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// SignUp registers a new account and returns it with a fresh token.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domain.ValidationErrors{{Field: "email", Message: "email and password are required"}}
	}
	if !domain.ValidPassword(password) {
		return nil, "", domain.ValidationErrors{{Field: "password", Message: "password must be at least 6 characters"}}
	}
	if !domain.ValidEmail(email) {
		return nil, "", domain.ValidationErrors{{Field: "email", Message: "enter a valid email address"}}
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, "", domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return nil, "", err
	}

	if displayName = strings.TrimSpace(displayName); displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}
	now := s.now().UTC()
	user := domain.User{
		ID:               uuid.NewString(),
		Email:            email,
		DisplayName:      displayName,
		DailyCalorieGoal: domain.DefaultCalorieGoal,
		PasswordHash:     string(hash),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// SignIn verifies the password and records the login time.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domain.ValidationErrors{{Field: "email", Message: "enter your email and password"}}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.touchLogin(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := s.IssueToken(*user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginWithEmail signs in a user already authenticated by the identity
// provider, creating the account on first use. Such accounts have no
// password and cannot use SignIn.
func (s *AuthService) LoginWithEmail(ctx context.Context, email, displayName string) (*domain.User, string, error) {
	if !domain.ValidEmail(email) {
		return nil, "", domain.ValidationErrors{{Field: "email", Message: "identity provider returned no usable email"}}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		if displayName == "" {
			displayName, _, _ = strings.Cut(email, "@")
		}
		now := s.now().UTC()
		created := domain.User{
			ID:               uuid.NewString(),
			Email:            email,
			DisplayName:      displayName,
			DailyCalorieGoal: domain.DefaultCalorieGoal,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		err = s.users.Create(ctx, created)
		switch {
		case err == nil:
			user = &created
		case errors.Is(err, domain.ErrEmailTaken):
			// Lost a race with a concurrent first login.
			if user, err = s.users.GetByEmail(ctx, email); err != nil || user == nil {
				return nil, "", fmt.Errorf("lookup user: %w", errors.Join(err, ErrUserNotFound))
			}
		default:
			return nil, "", err
		}
	}

	if err := s.touchLogin(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := s.IssueToken(*user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) touchLogin(ctx context.Context, user *domain.User) error {
	now := s.now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.users.Update(ctx, *user); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// CurrentUser returns the account behind a verified token.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return domain.ValidationErrors{{Field: "password", Message: "enter the current and the new password"}}
	}
	if !domain.ValidPassword(next) {
		return domain.ValidationErrors{{Field: "newPassword", Message: "new password must be at least 6 characters"}}
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), passwordCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now().UTC()
	return s.users.Update(ctx, *user)
}

// IssueToken signs a bearer token for user.
func (s *AuthService) IssueToken(user domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry of a bearer token.
func (s *AuthService) VerifyToken(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil || claims.UserID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
