package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/kanzleiworks/fristen-api/internal/domain"
)

// DeadlineRepo provides typed DynamoDB operations for the deadlines table.
// The engine never writes deadlines; resolution happens in the shell.
type DeadlineRepo struct {
	client    *dynamodb.Client
	tableName string
	users     *UserRepo
}

func NewDeadlineRepo(client *dynamodb.Client, tableName string, users *UserRepo) *DeadlineRepo {
	return &DeadlineRepo{client: client, tableName: tableName, users: users}
}

// ListOpen queries the open-index GSI for every unresolved deadline and
// eagerly attaches the responsible user and, one hop deep, their substitute.
// Deadlines whose responsible user cannot be loaded are returned with a nil
// Responsible so the sweep can log and skip them individually.
func (r *DeadlineRepo) ListOpen(ctx context.Context) ([]domain.Deadline, error) {
	var deadlines []domain.Deadline
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String("open-index"),
			KeyConditionExpression: aws.String("#o = :one"),
			ExpressionAttributeNames: map[string]string{
				"#o": "open",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":one": &types.AttributeValueMemberN{Value: "1"},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Deadline
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		deadlines = append(deadlines, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	r.attachUsers(ctx, deadlines)
	return deadlines, nil
}

// attachUsers hydrates Responsible and Responsible.Substitute, caching each
// user so shared owners are fetched once per sweep.
func (r *DeadlineRepo) attachUsers(ctx context.Context, deadlines []domain.Deadline) {
	cache := make(map[string]*domain.User)
	load := func(userID string) *domain.User {
		if u, ok := cache[userID]; ok {
			return u
		}
		u, err := r.users.Get(ctx, userID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				slog.Warn("could not load user for deadline hydration", "user_id", userID, "err", err)
			}
			cache[userID] = nil
			return nil
		}
		cache[userID] = u
		return u
	}

	for i := range deadlines {
		d := &deadlines[i]
		resp := load(d.ResponsibleID)
		if resp == nil {
			continue
		}
		// Copy before wiring the substitute pointer so cached entries stay clean.
		owner := *resp
		if owner.SubstituteID != nil {
			owner.Substitute = load(*owner.SubstituteID)
		}
		d.Responsible = &owner
	}
}
