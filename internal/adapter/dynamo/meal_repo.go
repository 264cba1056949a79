package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"calorietrack/internal/domain"
)

var _ domain.MealRepository = (*Store)(nil)

// PutMeal writes a meal keyed by (userId, id), replacing any previous item.
func (s *Store) PutMeal(ctx context.Context, m domain.MealRecord) error {
	item, err := attributevalue.MarshalMap(newMealItem(m, time.Now()))
	if err != nil {
		return err
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Meals),
		Item:      item,
	})
	return err
}

// MealsBetween queries the timestamp index for start <= timestamp < end.
func (s *Store) MealsBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.MealRecord, error) {
	in := &dynamodb.QueryInput{
		TableName:                aws.String(s.tables.Meals),
		IndexName:                aws.String(mealsByTimestampIndex),
		KeyConditionExpression:   aws.String("userId = :userId AND #timestamp BETWEEN :start AND :end"),
		ExpressionAttributeNames: map[string]string{"#timestamp": "timestamp"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": str(userID),
			":start":  str(formatTimestamp(start)),
			":end":    str(formatTimestamp(end)),
		},
	}

	var out []domain.MealRecord
	for {
		page, err := s.api.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		var items []mealItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			m, err := it.toDomain()
			if err != nil {
				return nil, err
			}
			// BETWEEN is inclusive on both ends.
			if !m.Timestamp.Before(end) {
				continue
			}
			out = append(out, m)
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
	return out, nil
}

// DeleteMeal removes a meal, returning domain.ErrNotFound when absent.
func (s *Store) DeleteMeal(ctx context.Context, userID, id string) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tables.Meals),
		Key: map[string]types.AttributeValue{
			"userId": str(userID),
			"id":     str(id),
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if conditionFailed(err) {
		return domain.ErrNotFound
	}
	return err
}
