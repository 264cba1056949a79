package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"calorietrack/internal/domain"
)

var _ domain.UserRepository = (*Store)(nil)

// GetByEmail queries the email index.
func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	res, err := s.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tables.Users),
		IndexName:              aws.String(usersByEmailIndex),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": str(email),
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, nil
	}
	return decodeUser(res.Items[0])
}

// GetByID retrieves a user by id.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.User, error) {
	res, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Users),
		Key:       map[string]types.AttributeValue{"id": str(id)},
	})
	if err != nil {
		return nil, err
	}
	if res.Item == nil {
		return nil, nil
	}
	return decodeUser(res.Item)
}

// Create stores a new user. The email index is not unique in DynamoDB, so
// the check is a read before the write.
func (s *Store) Create(ctx context.Context, u domain.User) error {
	existing, err := s.GetByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrEmailTaken
	}
	item, err := attributevalue.MarshalMap(newUserItem(u))
	if err != nil {
		return err
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tables.Users),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if conditionFailed(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// Update replaces an existing user item.
func (s *Store) Update(ctx context.Context, u domain.User) error {
	item, err := attributevalue.MarshalMap(newUserItem(u))
	if err != nil {
		return err
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tables.Users),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if conditionFailed(err) {
		return domain.ErrNotFound
	}
	return err
}

func decodeUser(av map[string]types.AttributeValue) (*domain.User, error) {
	var it userItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return nil, err
	}
	return it.toDomain()
}
