// Package dynamo implements the remote repositories using Amazon DynamoDB.
//
// Table layout:
//
//	foods     PK id
//	meals     PK userId, SK id; GSI UserIdTimestampIndex (userId, timestamp)
//	users     PK id; GSI EmailIndex (email)
//	settings  PK userId
package dynamo

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Index names.
const (
	mealsByTimestampIndex = "UserIdTimestampIndex"
	usersByEmailIndex     = "EmailIndex"
)

// timestampLayout is fixed width so lexical order matches chronological
// order in sort keys.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// API is the subset of the DynamoDB client used by the repositories.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Tables names the four tables backing the repositories.
type Tables struct {
	Foods    string
	Meals    string
	Users    string
	Settings string
}

// Store implements the domain repository interfaces on DynamoDB.
type Store struct {
	api    API
	tables Tables
}

// NewStore wraps an existing client.
func NewStore(api API, tables Tables) *Store {
	return &Store{api: api, tables: tables}
}

// Open loads the default AWS configuration for region and builds a Store.
// A non-empty endpoint overrides the service URL (DynamoDB Local).
func Open(ctx context.Context, region, endpoint string, tables Tables) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewStore(client, tables), nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func str(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

func conditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
