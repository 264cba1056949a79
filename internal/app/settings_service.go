package app

import (
	"context"
	"time"

	"calorietrack/internal/domain"
)

// SettingsService stores the versioned settings document of each user.
type SettingsService struct {
	repo domain.SettingsRepository
	now  func() time.Time
}

// NewSettingsService creates a SettingsService backed by the given repository.
func NewSettingsService(repo domain.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo, now: time.Now}
}

// Get returns the user's settings, or a document holding only the default
// calorie goal when none were stored.
func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.StoredSettings, error) {
	stored, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return defaultStored(userID), nil
	}
	return stored, nil
}

// Update merges u into the stored document and saves it.
func (s *SettingsService) Update(ctx context.Context, userID string, u domain.SettingsUpdate) (*domain.StoredSettings, error) {
	if err := domain.ValidateSettingsUpdate(u); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := domain.StoredSettings{
		UserID:        userID,
		SchemaVersion: domain.SettingsSchemaVersion,
		UserSettings:  u.Apply(current.UserSettings),
		UpdatedAt:     s.now().UTC(),
	}
	if err := s.repo.PutSettings(ctx, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func defaultStored(userID string) *domain.StoredSettings {
	return &domain.StoredSettings{
		UserID:        userID,
		SchemaVersion: domain.SettingsSchemaVersion,
		UserSettings:  domain.UserSettings{DailyCalorieGoal: domain.DefaultCalorieGoal},
	}
}
