package kinesis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/example/marketplace/internal/domain/inventory"
)

// ConvertFromKinesisRecord converts a Kinesis record (DynamoDB Streams
// format) to an inventory ledger entry. The DynamoDB Kinesis
// integration sends records in DynamoDB Streams format.
func ConvertFromKinesisRecord(record events.KinesisEventRecord) (*inventory.Entry, error) {
	var dynamoDBRecord events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &dynamoDBRecord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DynamoDB record: %w", err)
	}

	// The ledger is append-only, so only INSERT records carry data.
	if dynamoDBRecord.EventName != "INSERT" {
		return nil, nil
	}

	return convertDynamoDBImage(dynamoDBRecord.Change.NewImage)
}

// ConvertFromDynamoDBStreamRecord converts a DynamoDB Stream record
// directly, used when consuming the stream without Kinesis in between.
func ConvertFromDynamoDBStreamRecord(record events.DynamoDBEventRecord) (*inventory.Entry, error) {
	if record.EventName != "INSERT" {
		return nil, nil
	}

	return convertDynamoDBImage(record.Change.NewImage)
}

// convertDynamoDBImage extracts a ledger entry from DynamoDB attribute values.
func convertDynamoDBImage(image map[string]events.DynamoDBAttributeValue) (*inventory.Entry, error) {
	if image == nil {
		return nil, fmt.Errorf("DynamoDB image is nil")
	}

	entry := &inventory.Entry{}

	if v, ok := image["id"]; ok {
		entry.ID = v.String()
	}
	if v, ok := image["product_id"]; ok {
		entry.ProductID = v.String()
	}
	if v, ok := image["change_type"]; ok {
		entry.ChangeType = inventory.ChangeType(v.String())
	}
	if v, ok := image["order_id"]; ok {
		entry.OrderID = v.String()
	}
	if v, ok := image["triggered_by"]; ok {
		entry.TriggeredBy = v.String()
	}
	if v, ok := image["reason"]; ok {
		entry.Reason = v.String()
	}
	if v, ok := image["created_at"]; ok {
		t, err := time.Parse(time.RFC3339Nano, v.String())
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		entry.CreatedAt = t
	}

	for field, dst := range map[string]*int{
		"quantity_changed": &entry.QuantityChanged,
		"previous_stock":   &entry.PreviousStock,
		"new_stock":        &entry.NewStock,
	} {
		if v, ok := image[field]; ok {
			n, err := v.Integer()
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", field, err)
			}
			*dst = int(n)
		}
	}

	if entry.ID == "" || entry.ProductID == "" || entry.ChangeType == "" {
		return nil, fmt.Errorf("missing required fields: id=%s, product_id=%s, change_type=%s",
			entry.ID, entry.ProductID, entry.ChangeType)
	}

	return entry, nil
}

// BatchConvertFromKinesisEvent converts all records from a Kinesis
// event. Returns successfully converted entries and any errors
// encountered.
func BatchConvertFromKinesisEvent(kinesisEvent events.KinesisEvent) ([]*inventory.Entry, []error) {
	var entries []*inventory.Entry
	var errors []error

	for _, record := range kinesisEvent.Records {
		entry, err := ConvertFromKinesisRecord(record)
		if err != nil {
			errors = append(errors, fmt.Errorf("record %s: %w", record.EventID, err))
			continue
		}
		if entry != nil {
			entries = append(entries, entry)
		}
	}

	return entries, errors
}
