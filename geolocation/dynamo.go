package geolocation

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tailored-agentic-units/landmatch/core/geo"
)

// ItemGetter is the subset of *dynamodb.Client used by DynamoLocator.
type ItemGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// deviceLocation is the item layout written by device trackers.
type deviceLocation struct {
	DeviceID  string    `dynamodbav:"device_id"`
	Latitude  float64   `dynamodbav:"latitude"`
	Longitude float64   `dynamodbav:"longitude"`
	Accuracy  float64   `dynamodbav:"accuracy"`
	Timestamp time.Time `dynamodbav:"timestamp"`
}

// DynamoLocator reads a device's last reported position from a DynamoDB
// table keyed by device_id.
type DynamoLocator struct {
	client   ItemGetter
	table    string
	deviceID string
	maxAge   time.Duration
	now      func() time.Time
}

// NewDynamoLocator creates a locator for deviceID. A positive maxAge rejects
// positions older than that.
func NewDynamoLocator(client ItemGetter, table, deviceID string, maxAge time.Duration) *DynamoLocator {
	return &DynamoLocator{
		client:   client,
		table:    table,
		deviceID: deviceID,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// NewDynamoClient loads the default AWS configuration for region.
func NewDynamoClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (l *DynamoLocator) Locate(ctx context.Context) (geo.Point, error) {
	result, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.table),
		Key: map[string]dynamodbtypes.AttributeValue{
			"device_id": &dynamodbtypes.AttributeValueMemberS{Value: l.deviceID},
		},
	})
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to get location: %w", err)
	}
	if result.Item == nil {
		return geo.Point{}, fmt.Errorf("%w: no location for device %s", ErrUnavailable, l.deviceID)
	}

	var loc deviceLocation
	if err := attributevalue.UnmarshalMap(result.Item, &loc); err != nil {
		return geo.Point{}, fmt.Errorf("failed to unmarshal location: %w", err)
	}

	if l.maxAge > 0 && !loc.Timestamp.IsZero() && l.now().Sub(loc.Timestamp) > l.maxAge {
		return geo.Point{}, fmt.Errorf("%w: location for device %s is older than %s", ErrUnavailable, l.deviceID, l.maxAge)
	}

	p := geo.Point{Lat: loc.Latitude, Lng: loc.Longitude}
	if !p.Valid() {
		return geo.Point{}, fmt.Errorf("%w: invalid stored point %v", ErrUnavailable, p)
	}
	return p, nil
}
