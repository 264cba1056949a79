package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"calorietrack/internal/adapter/apiclient"
	"calorietrack/internal/domain"
)

// SyncWindowDays is how far back meals are pushed and pulled.
const SyncWindowDays = 30

const dayLayout = "2006-01-02"

var (
	// ErrSyncFailed wraps failures of the setup steps of a sync. Failures of
	// single meals never produce it.
	ErrSyncFailed = errors.New("sync failed")
	// ErrNotSignedIn is returned when a push is attempted with no user.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrGuestSession is returned when a push is attempted by a guest.
	ErrGuestSession = errors.New("guest sessions are not synced")
)

// LocalStore is the device database as seen by sync.
type LocalStore interface {
	UserSettings(ctx context.Context) (domain.UserSettings, error)
	UpdateUserSettings(ctx context.Context, u domain.SettingsUpdate) error
	ResetUserSettings(ctx context.Context) error
	MealRecordsSince(ctx context.Context, t time.Time) ([]domain.MealRecord, error)
	AddMealRecord(ctx context.Context, rec domain.MealRecord) (string, error)
	ClearAllMealRecords(ctx context.Context) error
}

// Remote is the part of the API client sync needs.
type Remote interface {
	Health(ctx context.Context) bool
	GetSettings(ctx context.Context, userID string) (*domain.StoredSettings, error)
	UpdateSettings(ctx context.Context, userID string, u domain.SettingsUpdate) (*domain.StoredSettings, error)
	AddMeal(ctx context.Context, meal domain.MealRecord) (string, error)
	DailySummary(ctx context.Context, userID, date string) (*apiclient.DailyReport, error)
}

// Session reports the current user.
type Session interface {
	CurrentUser(ctx context.Context) *domain.User
}

// SyncResult counts what a sync moved.
type SyncResult struct {
	SettingsSynced bool
	MealsSynced    int
	MealsFailed    int
}

// SyncService copies settings and recent meals between the device and the
// remote API. There is no conflict detection; the last writer wins.
type SyncService struct {
	local   LocalStore
	remote  Remote
	session Session
	log     *slog.Logger
	now     func() time.Time
}

// NewSyncService creates a SyncService.
func NewSyncService(local LocalStore, remote Remote, session Session, logger *slog.Logger) *SyncService {
	return &SyncService{local: local, remote: remote, session: session, log: logger, now: time.Now}
}

// SyncToCloud pushes the local settings and the meals of the last
// SyncWindowDays days. Meals are sent one at a time; a failed meal is logged
// and skipped.
func (s *SyncService) SyncToCloud(ctx context.Context) (*SyncResult, error) {
	user := s.session.CurrentUser(ctx)
	switch {
	case user == nil:
		return nil, ErrNotSignedIn
	case user.IsGuest:
		return nil, ErrGuestSession
	}

	settings, err := s.local.UserSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read local settings: %w", ErrSyncFailed, err)
	}
	meals, err := s.local.MealRecordsSince(ctx, s.now().AddDate(0, 0, -SyncWindowDays))
	if err != nil {
		return nil, fmt.Errorf("%w: read local meals: %w", ErrSyncFailed, err)
	}

	if _, err := s.remote.UpdateSettings(ctx, user.ID, domain.FullUpdate(settings)); err != nil {
		return nil, fmt.Errorf("%w: push settings: %w", ErrSyncFailed, err)
	}
	res := &SyncResult{SettingsSynced: true}

	for _, meal := range meals {
		meal.UserID = user.ID
		if _, err := s.remote.AddMeal(ctx, meal); err != nil {
			s.log.Warn("push meal", "meal_id", meal.ID, "food", meal.FoodName, "error", err)
			res.MealsFailed++
			continue
		}
		res.MealsSynced++
	}

	s.log.Info("pushed to cloud", "user_id", user.ID, "meals", res.MealsSynced, "failed", res.MealsFailed)
	return res, nil
}

// SyncFromCloud replaces the local meals and settings with the remote copy.
// Local data is cleared first. Remote failures after that point are logged
// and leave the local store partially restored. Guests and signed-out
// devices are left untouched.
func (s *SyncService) SyncFromCloud(ctx context.Context) (*SyncResult, error) {
	res := &SyncResult{}
	user := s.session.CurrentUser(ctx)
	if user == nil || user.IsGuest {
		return res, nil
	}

	if err := s.local.ClearAllMealRecords(ctx); err != nil {
		return nil, fmt.Errorf("%w: clear local meals: %w", ErrSyncFailed, err)
	}
	if err := s.local.ResetUserSettings(ctx); err != nil {
		return nil, fmt.Errorf("%w: reset local settings: %w", ErrSyncFailed, err)
	}

	if err := s.pullSettings(ctx, user.ID); err != nil {
		s.log.Warn("restore settings", "user_id", user.ID, "error", err)
	} else {
		res.SettingsSynced = true
	}

	today := s.now().UTC()
	for i := SyncWindowDays; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(dayLayout)
		report, err := s.remote.DailySummary(ctx, user.ID, day)
		if err != nil {
			s.log.Warn("fetch remote day", "date", day, "error", err)
			continue
		}
		for _, meal := range report.Meals {
			meal.UserID = ""
			if _, err := s.local.AddMealRecord(ctx, meal); err != nil {
				s.log.Warn("restore meal", "meal_id", meal.ID, "food", meal.FoodName, "error", err)
				res.MealsFailed++
				continue
			}
			res.MealsSynced++
		}
	}

	s.log.Info("pulled from cloud", "user_id", user.ID, "meals", res.MealsSynced, "failed", res.MealsFailed)
	return res, nil
}

func (s *SyncService) pullSettings(ctx context.Context, userID string) error {
	st, err := s.remote.GetSettings(ctx, userID)
	if err != nil {
		return err
	}
	return s.local.UpdateUserSettings(ctx, restoredSettings(st.UserSettings))
}

// restoredSettings turns a remote document into a local update. Fields the
// remote never stored keep their local defaults.
func restoredSettings(st domain.UserSettings) domain.SettingsUpdate {
	goal := st.DailyCalorieGoal
	if goal <= 0 {
		goal = domain.DefaultCalorieGoal
	}
	u := domain.SettingsUpdate{DailyCalorieGoal: &goal}
	if st.Weight > 0 {
		u.Weight = &st.Weight
	}
	if st.Height > 0 {
		u.Height = &st.Height
	}
	if st.Age > 0 {
		u.Age = &st.Age
	}
	if st.Gender.Valid() {
		u.Gender = &st.Gender
	}
	if st.ActivityLevel.Valid() {
		u.ActivityLevel = &st.ActivityLevel
	}
	return u
}

// AutoSync pushes in the background of other work. Errors are logged, not
// returned.
func (s *SyncService) AutoSync(ctx context.Context) {
	user := s.session.CurrentUser(ctx)
	if user == nil || user.IsGuest {
		return
	}
	if _, err := s.SyncToCloud(ctx); err != nil {
		s.log.Error("auto sync", "error", err)
	}
}

// CheckConnection reports whether the remote API is reachable.
func (s *SyncService) CheckConnection(ctx context.Context) bool {
	return s.remote.Health(ctx)
}
