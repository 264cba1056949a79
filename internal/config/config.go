// Package config loads server and client settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends for the remote API.
const (
	StorePostgres = "postgres"
	StoreDynamo   = "dynamodb"
	StoreMemory   = "memory"
)

// Server is the remote API configuration.
type Server struct {
	Addr        string
	Store       string
	DatabaseURL string
	SeedFoods   bool

	Dynamo Dynamo
	Auth   Auth
	OIDC   OIDC
	Log    Log
}

// Dynamo configures the DynamoDB tables.
type Dynamo struct {
	Region        string
	Endpoint      string
	FoodsTable    string
	MealsTable    string
	UsersTable    string
	SettingsTable string
}

// Auth configures bearer tokens.
type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// OIDC configures optional single sign-on. It is enabled when Issuer is set.
type OIDC struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool { return o.Issuer != "" }

// Log configures the logger.
type Log struct {
	Level  string
	Format string
}

// Client is the device-side CLI configuration.
type Client struct {
	APIURL string
	DBPath string
	Log    Log
}

// LoadServer reads the remote API configuration.
func LoadServer() (*Server, error) {
	loadDotEnv()

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	seed, err := strconv.ParseBool(getEnv("SEED_FOODS", "true"))
	if err != nil {
		return nil, fmt.Errorf("SEED_FOODS: %w", err)
	}

	cfg := &Server{
		Addr:        getEnv("ADDR", ":8080"),
		Store:       strings.ToLower(getEnv("STORE", StorePostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SeedFoods:   seed,
		Dynamo: Dynamo{
			Region:        getEnv("AWS_REGION", "ap-northeast-1"),
			Endpoint:      os.Getenv("DYNAMODB_ENDPOINT"),
			FoodsTable:    getEnv("FOODS_TABLE", "calorie-tracker-foods"),
			MealsTable:    getEnv("MEALS_TABLE", "calorie-tracker-meals"),
			UsersTable:    getEnv("USERS_TABLE", "calorie-tracker-users"),
			SettingsTable: getEnv("SETTINGS_TABLE", "calorie-tracker-settings"),
		},
		Auth: Auth{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  ttl,
		},
		OIDC: OIDC{
			Issuer:       os.Getenv("OIDC_ISSUER"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
		Log: loadLog(),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Server) validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case StoreDynamo, StoreMemory:
	default:
		return fmt.Errorf("STORE must be one of postgres, dynamodb, memory; got %q", c.Store)
	}
	if c.Auth.JWTSecret == "" {
		if c.Store != StoreMemory {
			return errors.New("JWT_SECRET is required")
		}
		c.Auth.JWTSecret = "dev-secret"
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.OIDC.Enabled() && (c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "") {
		return errors.New("OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required when OIDC_ISSUER is set")
	}
	return nil
}

// LoadClient reads the CLI configuration.
func LoadClient() (*Client, error) {
	loadDotEnv()

	cfg := &Client{
		APIURL: strings.TrimRight(getEnv("CALORIETRACK_API_URL", "http://localhost:8080"), "/"),
		DBPath: getEnv("CALORIETRACK_DB", "calorietrack.db"),
		Log:    loadLog(),
	}
	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return nil, fmt.Errorf("CALORIETRACK_API_URL must be an http(s) URL; got %q", cfg.APIURL)
	}
	return cfg, nil
}

func loadLog() Log {
	return Log{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "text"),
	}
}

// loadDotEnv seeds the environment from .env when present. Variables that are
// already set win.
func loadDotEnv() {
	_ = godotenv.Load()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
