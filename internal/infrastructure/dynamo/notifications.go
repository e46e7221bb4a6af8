package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/kanzleiworks/fristen-api/internal/domain"
)

// NotificationRepo provides typed DynamoDB operations for the notifications
// table. The table doubles as the deduplication ledger, so it is append-only
// from the engine's point of view.
type NotificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNotificationRepo(client *dynamodb.Client, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListForDeadlineSince queries the deadline_id-created_at GSI for records of
// the given category created at or after since. created_at is stored as an
// RFC3339 string, so the range condition is a plain lexicographic compare.
func (r *NotificationRepo) ListForDeadlineSince(ctx context.Context, deadlineID, category string, since time.Time) ([]domain.Notification, error) {
	sinceAttr, err := attributevalue.Marshal(since.UTC())
	if err != nil {
		return nil, fmt.Errorf("marshal since: %w", err)
	}
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("deadline_id-created_at-index"),
		KeyConditionExpression: aws.String("deadline_id = :did AND created_at >= :since"),
		FilterExpression:       aws.String("category = :cat"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":did":   &types.AttributeValueMemberS{Value: deadlineID},
			":since": sinceAttr,
			":cat":   &types.AttributeValueMemberS{Value: category},
		},
	})
	if err != nil {
		return nil, err
	}
	var notifications []domain.Notification
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
