package dynamo

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// SettingsRepo provides typed reads from the settings table the shell's
// admin screens write. Values are stored as strings and parsed on read;
// an unparsable value falls back to the supplied default.
type SettingsRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSettingsRepo(client *dynamodb.Client, tableName string) *SettingsRepo {
	return &SettingsRepo{client: client, tableName: tableName}
}

type settingItem struct {
	Key   string `dynamodbav:"setting_key"`
	Value string `dynamodbav:"setting_value"`
}

func (r *SettingsRepo) get(ctx context.Context, key string) (string, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("setting_key", key),
	})
	if err != nil {
		return "", false, err
	}
	if out.Item == nil {
		return "", false, nil
	}
	var item settingItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return "", false, err
	}
	return item.Value, true, nil
}

// GetBool returns the boolean setting under key, or def when absent.
func (r *SettingsRepo) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	raw, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	v, perr := strconv.ParseBool(raw)
	if perr != nil {
		slog.Warn("setting is not a boolean, using default", "key", key, "value", raw)
		return def, nil
	}
	return v, nil
}

// GetInt returns the integer setting under key, or def when absent.
func (r *SettingsRepo) GetInt(ctx context.Context, key string, def int) (int, error) {
	raw, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	v, perr := strconv.Atoi(raw)
	if perr != nil {
		slog.Warn("setting is not an integer, using default", "key", key, "value", raw)
		return def, nil
	}
	return v, nil
}
