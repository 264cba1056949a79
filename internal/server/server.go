// Package server assembles the remote API from its configuration. It is
// shared by the standalone HTTP binary and the Lambda binary.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	adapthttp "calorietrack/internal/adapter/http"
	"calorietrack/internal/adapter/dynamo"
	"calorietrack/internal/adapter/memory"
	"calorietrack/internal/adapter/postgres"
	"calorietrack/internal/app"
	"calorietrack/internal/config"
	"calorietrack/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type repositories interface {
	domain.FoodRepository
	domain.MealRepository
	domain.UserRepository
	domain.SettingsRepository
}

// Build opens the configured store and returns the API handler together
// with a function that releases the store.
func Build(ctx context.Context, cfg *config.Server, logger *slog.Logger) (http.Handler, func() error, error) {
	repos, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	foods := app.NewFoodService(repos)
	if cfg.SeedFoods {
		n, err := foods.Seed(ctx, domain.DefaultFoods())
		if err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("seed foods: %w", err)
		}
		if n > 0 {
			logger.Info("seeded food catalog", "added", n)
		}
	}

	srv := adapthttp.New(
		app.NewAuthService(repos, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
		foods,
		app.NewMealService(repos, repos),
		app.NewSettingsService(repos),
		logger,
	)

	if cfg.OIDC.Enabled() {
		provider, err := oidc.NewProvider(ctx, cfg.OIDC.Issuer)
		if err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("oidc provider: %w", err)
		}
		srv.WithOIDC(adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: oauth2.Config{
				ClientID:     cfg.OIDC.ClientID,
				ClientSecret: cfg.OIDC.ClientSecret,
				RedirectURL:  cfg.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		})
		logger.Info("single sign-on enabled", "issuer", cfg.OIDC.Issuer)
	}

	return srv.Handler(), closeFn, nil
}

func openStore(ctx context.Context, cfg *config.Server) (repositories, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, db.Close, nil
	case config.StoreDynamo:
		store, err := dynamo.Open(ctx, cfg.Dynamo.Region, cfg.Dynamo.Endpoint, dynamo.Tables{
			Foods:    cfg.Dynamo.FoodsTable,
			Meals:    cfg.Dynamo.MealsTable,
			Users:    cfg.Dynamo.UsersTable,
			Settings: cfg.Dynamo.SettingsTable,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open dynamodb: %w", err)
		}
		return store, noop, nil
	case config.StoreMemory:
		return memory.New(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}
