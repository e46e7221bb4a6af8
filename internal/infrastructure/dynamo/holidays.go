package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const holidayDateFormat = "2006-01-02"

// HolidayRepo answers public-holiday lookups from the holidays table, which
// the case-management shell maintains per jurisdiction (one item per
// jurisdiction + date). Lookups are cached for the life of the repo; the
// calendar only changes on shell deployments.
type HolidayRepo struct {
	client    *dynamodb.Client
	tableName string
	cache     map[string]bool
}

func NewHolidayRepo(client *dynamodb.Client, tableName string) *HolidayRepo {
	return &HolidayRepo{client: client, tableName: tableName, cache: make(map[string]bool)}
}

// IsHoliday reports whether day is a public holiday in the given
// jurisdiction. The day is compared by calendar date only.
func (r *HolidayRepo) IsHoliday(ctx context.Context, day time.Time, jurisdiction string) (bool, error) {
	cacheKey := jurisdiction + "#" + day.Format(holidayDateFormat)
	if hit, ok := r.cache[cacheKey]; ok {
		return hit, nil
	}
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("jurisdiction", jurisdiction, "holiday_date", day.Format(holidayDateFormat)),
	})
	if err != nil {
		return false, err
	}
	isHoliday := out.Item != nil
	r.cache[cacheKey] = isHoliday
	return isHoliday, nil
}
