package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"calorietrack/internal/domain"
)

var _ domain.SettingsRepository = (*Store)(nil)

// GetSettings returns the settings document of a user, or nil.
func (s *Store) GetSettings(ctx context.Context, userID string) (*domain.StoredSettings, error) {
	res, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Settings),
		Key:       map[string]types.AttributeValue{"userId": str(userID)},
	})
	if err != nil {
		return nil, err
	}
	if res.Item == nil {
		return nil, nil
	}
	var it settingsItem
	if err := attributevalue.UnmarshalMap(res.Item, &it); err != nil {
		return nil, err
	}
	updated, err := parseTimestamp(it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.StoredSettings{
		UserID:        it.UserID,
		SchemaVersion: it.SchemaVersion,
		UserSettings: domain.UserSettings{
			DailyCalorieGoal: it.DailyCalorieGoal,
			Weight:           it.Weight,
			Height:           it.Height,
			Age:              it.Age,
			Gender:           domain.Gender(it.Gender),
			ActivityLevel:    domain.ActivityLevel(it.ActivityLevel),
		},
		UpdatedAt: updated,
	}, nil
}

// PutSettings replaces the settings document of a user.
func (s *Store) PutSettings(ctx context.Context, st domain.StoredSettings) error {
	item, err := attributevalue.MarshalMap(settingsItem{
		UserID:           st.UserID,
		SchemaVersion:    st.SchemaVersion,
		DailyCalorieGoal: st.DailyCalorieGoal,
		Weight:           st.Weight,
		Height:           st.Height,
		Age:              st.Age,
		Gender:           string(st.Gender),
		ActivityLevel:    string(st.ActivityLevel),
		UpdatedAt:        formatTimestamp(st.UpdatedAt),
	})
	if err != nil {
		return err
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Settings),
		Item:      item,
	})
	return err
}
