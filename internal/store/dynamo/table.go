// Package dynamo implements the store contracts on DynamoDB.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pricofy/games-api/internal/store"
)

const (
	// batchSize is the BatchWriteItem per-request item limit.
	batchSize = 25
	// maxTransactItems is the TransactWriteItems per-request item limit.
	maxTransactItems = 100
	// maxBatchRetries bounds retries of unprocessed batch items.
	maxBatchRetries = 5
)

// API is the subset of the DynamoDB client used by this package.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Key is a primary key: partition key alone or partition + sort key.
type Key map[string]types.AttributeValue

// StringKey builds a key from string attribute pairs (name, value, ...).
func StringKey(pairs ...string) Key {
	k := make(Key, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		k[pairs[i]] = &types.AttributeValueMemberS{Value: pairs[i+1]}
	}
	return k
}

// Table is a thin, transaction-free gateway over one DynamoDB table.
// Every call is a single-item or single-partition operation.
type Table struct {
	api  API
	name string
}

// NewTable creates a gateway for the named table.
func NewTable(api API, name string) *Table {
	return &Table{api: api, name: name}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// GetByKey reads one item into out. Returns store.ErrNotFound if absent.
func (t *Table) GetByKey(ctx context.Context, key Key, out any) error {
	res, err := t.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.name),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("get item from %s: %w", t.name, err)
	}
	if len(res.Item) == 0 {
		return store.ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return fmt.Errorf("unmarshal item from %s: %w", t.name, err)
	}
	return nil
}

// QueryByPartition reads every item of one partition, optionally narrowed by
// filter, into out (a pointer to a slice). Pages are followed to the end.
func (t *Table) QueryByPartition(ctx context.Context, keyCond expression.KeyConditionBuilder, filter *expression.ConditionBuilder, out any) error {
	return t.query(ctx, "", keyCond, filter, 0, out)
}

// QueryByIndex queries a secondary index. A positive limit reads a single
// page of at most limit items.
func (t *Table) QueryByIndex(ctx context.Context, index string, keyCond expression.KeyConditionBuilder, limit int32, out any) error {
	return t.query(ctx, index, keyCond, nil, limit, out)
}

func (t *Table) query(ctx context.Context, index string, keyCond expression.KeyConditionBuilder, filter *expression.ConditionBuilder, limit int32, out any) error {
	b := expression.NewBuilder().WithKeyCondition(keyCond)
	if filter != nil {
		b = b.WithFilter(*filter)
	}
	expr, err := b.Build()
	if err != nil {
		return fmt.Errorf("build query expression: %w", err)
	}

	in := &dynamodb.QueryInput{
		TableName:                 aws.String(t.name),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if index != "" {
		in.IndexName = aws.String(index)
	}
	if limit > 0 {
		in.Limit = aws.Int32(limit)
	}

	var items []map[string]types.AttributeValue
	for {
		res, err := t.api.Query(ctx, in)
		if err != nil {
			return fmt.Errorf("query %s: %w", t.name, err)
		}
		items = append(items, res.Items...)
		if limit > 0 || len(res.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = res.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal items from %s: %w", t.name, err)
	}
	return nil
}

// Scan reads the whole table into out (a pointer to a slice).
func (t *Table) Scan(ctx context.Context, out any) error {
	in := &dynamodb.ScanInput{TableName: aws.String(t.name)}

	var items []map[string]types.AttributeValue
	for {
		res, err := t.api.Scan(ctx, in)
		if err != nil {
			return fmt.Errorf("scan %s: %w", t.name, err)
		}
		items = append(items, res.Items...)
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = res.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal items from %s: %w", t.name, err)
	}
	return nil
}

// Put writes item. With a condition, a failed check returns store.ErrConflict.
func (t *Table) Put(ctx context.Context, item any, cond *expression.ConditionBuilder) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item for %s: %w", t.name, err)
	}

	in := &dynamodb.PutItemInput{TableName: aws.String(t.name), Item: av}
	if cond != nil {
		expr, err := expression.NewBuilder().WithCondition(*cond).Build()
		if err != nil {
			return fmt.Errorf("build condition: %w", err)
		}
		in.ConditionExpression = expr.Condition()
		in.ExpressionAttributeNames = expr.Names()
		in.ExpressionAttributeValues = expr.Values()
	}

	if _, err := t.api.PutItem(ctx, in); err != nil {
		return t.writeError("put item", err)
	}
	return nil
}

// Update applies update to the item at key. With a condition, a failed
// check returns store.ErrConflict.
func (t *Table) Update(ctx context.Context, key Key, update expression.UpdateBuilder, cond *expression.ConditionBuilder) error {
	in, err := t.updateInput(key, update, cond)
	if err != nil {
		return err
	}
	if _, err := t.api.UpdateItem(ctx, in); err != nil {
		return t.writeError("update item", err)
	}
	return nil
}

func (t *Table) updateInput(key Key, update expression.UpdateBuilder, cond *expression.ConditionBuilder) (*dynamodb.UpdateItemInput, error) {
	b := expression.NewBuilder().WithUpdate(update)
	if cond != nil {
		b = b.WithCondition(*cond)
	}
	expr, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build update expression: %w", err)
	}
	return &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}

// Delete removes the item at key. Deleting a missing item is not an error.
func (t *Table) Delete(ctx context.Context, key Key) error {
	_, err := t.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("delete item from %s: %w", t.name, err)
	}
	return nil
}

// BatchPut writes items in batches, retrying unprocessed items a bounded
// number of times. Existing items are overwritten.
func (t *Table) BatchPut(ctx context.Context, items []any) error {
	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, item := range items[start:end] {
			av, err := attributevalue.MarshalMap(item)
			if err != nil {
				return fmt.Errorf("marshal item for %s: %w", t.name, err)
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
		}

		if err := t.batchWrite(ctx, map[string][]types.WriteRequest{t.name: requests}); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) batchWrite(ctx context.Context, pending map[string][]types.WriteRequest) error {
	for attempt := 0; ; attempt++ {
		res, err := t.api.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("batch write to %s: %w", t.name, err)
		}
		if len(res.UnprocessedItems) == 0 {
			return nil
		}
		if attempt+1 >= maxBatchRetries {
			return fmt.Errorf("batch write to %s: %d tables with unprocessed items after %d attempts",
				t.name, len(res.UnprocessedItems), maxBatchRetries)
		}
		pending = res.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
}

// putItem builds a transactional put.
func (t *Table) putItem(item any, cond *expression.ConditionBuilder) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("marshal item for %s: %w", t.name, err)
	}
	put := &types.Put{TableName: aws.String(t.name), Item: av}
	if cond != nil {
		expr, err := expression.NewBuilder().WithCondition(*cond).Build()
		if err != nil {
			return types.TransactWriteItem{}, fmt.Errorf("build condition: %w", err)
		}
		put.ConditionExpression = expr.Condition()
		put.ExpressionAttributeNames = expr.Names()
		put.ExpressionAttributeValues = expr.Values()
	}
	return types.TransactWriteItem{Put: put}, nil
}

// updateItem builds a transactional update.
func (t *Table) updateItem(key Key, update expression.UpdateBuilder, cond *expression.ConditionBuilder) (types.TransactWriteItem, error) {
	in, err := t.updateInput(key, update, cond)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{Update: &types.Update{
		TableName:                 in.TableName,
		Key:                       in.Key,
		UpdateExpression:          in.UpdateExpression,
		ConditionExpression:       in.ConditionExpression,
		ExpressionAttributeNames:  in.ExpressionAttributeNames,
		ExpressionAttributeValues: in.ExpressionAttributeValues,
	}}, nil
}

// deleteItem builds a transactional delete.
func (t *Table) deleteItem(key Key) types.TransactWriteItem {
	return types.TransactWriteItem{Delete: &types.Delete{TableName: aws.String(t.name), Key: key}}
}

func (t *Table) writeError(op string, err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return store.ErrConflict
	}
	return fmt.Errorf("%s in %s: %w", op, t.name, err)
}

// transactWrite commits items atomically. A cancellation caused by a failed
// condition returns store.ErrConflict.
func transactWrite(ctx context.Context, api API, items []types.TransactWriteItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
				return store.ErrConflict
			}
		}
	}
	return fmt.Errorf("transact write: %w", err)
}

func notExists(attr string) *expression.ConditionBuilder {
	c := expression.AttributeNotExists(expression.Name(attr))
	return &c
}

func exists(attr string) *expression.ConditionBuilder {
	c := expression.AttributeExists(expression.Name(attr))
	return &c
}
