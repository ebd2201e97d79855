package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/marketplace/internal/domain/inventory"
)

// DynamoLedgerStore implements inventory.Store on DynamoDB. Entries
// partition by product and sort by a timestamp key, so a product's
// audit trail is one query. With the table's stream enabled the
// entries also feed the Lambda notifier without extra plumbing.
type DynamoLedgerStore struct {
	client    *dynamodb.Client
	tableName string
}

// dynamoLedgerEntry represents the DynamoDB item structure
type dynamoLedgerEntry struct {
	ProductID       string `dynamodbav:"product_id"`
	SortKey         string `dynamodbav:"sk"` // created_at#id, unique per entry
	ID              string `dynamodbav:"id"`
	ChangeType      string `dynamodbav:"change_type"`
	QuantityChanged int    `dynamodbav:"quantity_changed"`
	PreviousStock   int    `dynamodbav:"previous_stock"`
	NewStock        int    `dynamodbav:"new_stock"`
	OrderID         string `dynamodbav:"order_id,omitempty"`
	TriggeredBy     string `dynamodbav:"triggered_by"`
	Reason          string `dynamodbav:"reason,omitempty"`
	CreatedAt       string `dynamodbav:"created_at"`
}

func NewDynamoLedgerStore(client *dynamodb.Client, tableName string) *DynamoLedgerStore {
	return &DynamoLedgerStore{client: client, tableName: tableName}
}

// Append writes one entry. The conditional expression rejects a key
// collision instead of silently overwriting, keeping the table
// append-only.
func (s *DynamoLedgerStore) Append(ctx context.Context, e *inventory.Entry) error {
	item := dynamoLedgerEntry{
		ProductID:       e.ProductID,
		SortKey:         e.CreatedAt.UTC().Format(time.RFC3339Nano) + "#" + e.ID,
		ID:              e.ID,
		ChangeType:      string(e.ChangeType),
		QuantityChanged: e.QuantityChanged,
		PreviousStock:   e.PreviousStock,
		NewStock:        e.NewStock,
		OrderID:         e.OrderID,
		TriggeredBy:     e.TriggeredBy,
		Reason:          e.Reason,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(product_id) AND attribute_not_exists(sk)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put ledger entry: %w", err)
	}
	return nil
}

// ListByProduct returns a product's entries newest-first.
func (s *DynamoLedgerStore) ListByProduct(ctx context.Context, productID string) ([]*inventory.Entry, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("product_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: productID},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*inventory.Entry, 0, len(result.Items))
	for _, item := range result.Items {
		var de dynamoLedgerEntry
		if err := attributevalue.UnmarshalMap(item, &de); err != nil {
			continue
		}
		createdAt, _ := time.Parse(time.RFC3339Nano, de.CreatedAt)
		entries = append(entries, &inventory.Entry{
			ID:              de.ID,
			ProductID:       de.ProductID,
			ChangeType:      inventory.ChangeType(de.ChangeType),
			QuantityChanged: de.QuantityChanged,
			PreviousStock:   de.PreviousStock,
			NewStock:        de.NewStock,
			OrderID:         de.OrderID,
			TriggeredBy:     de.TriggeredBy,
			Reason:          de.Reason,
			CreatedAt:       createdAt,
		})
	}
	return entries, nil
}
