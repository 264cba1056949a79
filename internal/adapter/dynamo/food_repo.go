package dynamo

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"calorietrack/internal/domain"
)

var _ domain.FoodRepository = (*Store)(nil)

// SearchFoods scans the foods table for names containing query. The scan is
// paginated to completion and sorted by name.
func (s *Store) SearchFoods(ctx context.Context, query string) ([]domain.Food, error) {
	in := &dynamodb.ScanInput{
		TableName:                aws.String(s.tables.Foods),
		FilterExpression:         aws.String("contains(#name, :query)"),
		ExpressionAttributeNames: map[string]string{"#name": "name"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":query": str(query),
		},
	}

	var out []domain.Food
	for {
		page, err := s.api.Scan(ctx, in)
		if err != nil {
			return nil, err
		}
		var items []foodItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			out = append(out, it.toDomain())
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetFood retrieves a food by id.
func (s *Store) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	res, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Foods),
		Key:       map[string]types.AttributeValue{"id": str(id)},
	})
	if err != nil {
		return nil, err
	}
	if res.Item == nil {
		return nil, nil
	}
	var it foodItem
	if err := attributevalue.UnmarshalMap(res.Item, &it); err != nil {
		return nil, err
	}
	f := it.toDomain()
	return &f, nil
}

// PutFood writes a food, replacing any existing item with the same id.
func (s *Store) PutFood(ctx context.Context, f domain.Food) error {
	item, err := attributevalue.MarshalMap(foodItem(f))
	if err != nil {
		return err
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Foods),
		Item:      item,
	})
	return err
}
