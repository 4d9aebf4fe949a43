// Package dynamo implements docstore.Store on Amazon DynamoDB. Every table
// has a single string partition key named "id".
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/awsx"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
)

// API is the subset of *dynamodb.Client the store calls.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var newDynamoClient = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) API {
	return dynamodb.NewFromConfig(cfg, optFns...)
}

var _ docstore.Store = (*Store)(nil)

type Store struct {
	api API
}

func New(api API) *Store {
	return &Store{api: api}
}

// Config selects the AWS account and, for local DynamoDB, the endpoint.
type Config struct {
	AWS      awsx.Options
	Endpoint string
}

// Open builds a client from cfg.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := awsx.Load(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	api := newDynamoClient(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return New(api), nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		docstore.AttrID: &types.AttributeValueMemberS{Value: id},
	}
}

func decode(item map[string]types.AttributeValue) (docstore.Record, error) {
	var rec docstore.Record
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("%w: unmarshal item: %w", docstore.ErrStore, err)
	}
	if rec == nil {
		rec = docstore.Record{}
	}
	return rec, nil
}

func encode(rec docstore.Record) (map[string]types.AttributeValue, error) {
	row, err := docstore.NormalizeRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docstore.ErrStore, err)
	}
	item, err := attributevalue.MarshalMap(row)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal item: %w", docstore.ErrStore, err)
	}
	return item, nil
}

func (s *Store) Get(ctx context.Context, table, id string) (docstore.Record, bool, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, classify("get", table, err)
	}
	if out.Item == nil {
		return nil, false, nil
	}
	rec, err := decode(out.Item)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func filterCondition(filter docstore.Filter) (expression.ConditionBuilder, bool) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var cond expression.ConditionBuilder
	for i, k := range keys {
		name := expression.Name(k)
		var c expression.ConditionBuilder
		if filter[k] == nil {
			c = expression.Or(name.AttributeNotExists(), name.Equal(expression.Value(nil)))
		} else {
			c = name.Equal(expression.Value(filter[k]))
		}
		if i == 0 {
			cond = c
		} else {
			cond = cond.And(c)
		}
	}
	return cond, len(keys) > 0
}

func (s *Store) Scan(ctx context.Context, table string, filter docstore.Filter) ([]docstore.Record, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(table)}

	if cond, ok := filterCondition(filter); ok {
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return nil, fmt.Errorf("%w: build filter: %w", docstore.ErrStore, err)
		}
		in.FilterExpression = expr.Filter()
		in.ExpressionAttributeNames = expr.Names()
		in.ExpressionAttributeValues = expr.Values()
	}

	out := make([]docstore.Record, 0)
	for {
		page, err := s.api.Scan(ctx, in)
		if err != nil {
			return nil, classify("scan", table, err)
		}
		for _, item := range page.Items {
			rec, err := decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
}

func (s *Store) InsertIfAbsent(ctx context.Context, table string, rec docstore.Record) (docstore.Record, error) {
	if err := docstore.RequireID(rec); err != nil {
		return nil, err
	}
	item, err := encode(rec)
	if err != nil {
		return nil, err
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name(docstore.AttrID).AttributeNotExists()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("%w: build condition: %w", docstore.ErrStore, err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if isConditionFailed(err) {
		return nil, fmt.Errorf("%s %q: %w", table, docstore.ID(rec), docstore.ErrAlreadyExists)
	}
	if err != nil {
		return nil, classify("insert", table, err)
	}
	return decode(item)
}

func versionCondition(want int64) expression.ConditionBuilder {
	v := expression.Name(docstore.AttrVersion)
	if want == 0 {
		return expression.Or(
			expression.Name(docstore.AttrID).AttributeNotExists(),
			v.AttributeNotExists(),
			v.Equal(expression.Value(0)),
		)
	}
	return v.Equal(expression.Value(want))
}

func (s *Store) Put(ctx context.Context, table string, rec docstore.Record) (docstore.Record, error) {
	if err := docstore.RequireID(rec); err != nil {
		return nil, err
	}
	row, err := docstore.NormalizeRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docstore.ErrStore, err)
	}

	in := &dynamodb.PutItemInput{TableName: aws.String(table)}

	if want, versioned := docstore.Version(row); versioned {
		row[docstore.AttrVersion] = float64(want + 1)
		expr, err := expression.NewBuilder().WithCondition(versionCondition(want)).Build()
		if err != nil {
			return nil, fmt.Errorf("%w: build condition: %w", docstore.ErrStore, err)
		}
		in.ConditionExpression = expr.Condition()
		in.ExpressionAttributeNames = expr.Names()
		in.ExpressionAttributeValues = expr.Values()
	}

	item, err := encode(row)
	if err != nil {
		return nil, err
	}
	in.Item = item

	_, err = s.api.PutItem(ctx, in)
	if isConditionFailed(err) {
		return nil, fmt.Errorf("%s %q: %w", table, docstore.ID(row), docstore.ErrConflict)
	}
	if err != nil {
		return nil, classify("put", table, err)
	}
	return row, nil
}

func (s *Store) update(ctx context.Context, op, table, id string, upd expression.UpdateBuilder) (docstore.Record, error) {
	upd = upd.Set(expression.Name(docstore.AttrUpdatedAt), expression.Value(docstore.Timestamp()))

	expr, err := expression.NewBuilder().
		WithUpdate(upd).
		WithCondition(expression.Name(docstore.AttrID).AttributeExists()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("%w: build update: %w", docstore.ErrStore, err)
	}

	out, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if isConditionFailed(err) {
		return nil, fmt.Errorf("%s %q: %w", table, id, docstore.ErrNotFound)
	}
	if err != nil {
		return nil, classify(op, table, err)
	}
	return decode(out.Attributes)
}

func (s *Store) PartialUpdate(ctx context.Context, table, id string, changes docstore.Changes) (docstore.Record, error) {
	if err := docstore.ValidateChanges(changes); err != nil {
		return nil, err
	}
	norm, err := docstore.NormalizeRecord(docstore.Record(changes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docstore.ErrStore, err)
	}

	keys := make([]string, 0, len(norm))
	for k := range norm {
		if k != docstore.AttrUpdatedAt {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var upd expression.UpdateBuilder
	for _, k := range keys {
		upd = upd.Set(expression.Name(k), expression.Value(norm[k]))
	}
	return s.update(ctx, "update", table, id, upd)
}

// Increment uses the ADD action, which DynamoDB applies atomically and
// which treats a missing attribute as 0.
func (s *Store) Increment(ctx context.Context, table, id, field string, delta float64) (docstore.Record, error) {
	if err := docstore.ValidateCounter(field); err != nil {
		return nil, err
	}
	upd := expression.Add(expression.Name(field), expression.Value(delta))
	return s.update(ctx, "increment", table, id, upd)
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key(id),
	})
	if err != nil {
		return classify("delete", table, err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

var throttlingCodes = map[string]bool{
	"ProvisionedThroughputExceededException": true,
	"RequestLimitExceeded":                   true,
	"ThrottlingException":                    true,
	"LimitExceededException":                 true,
	"InternalServerError":                    true,
	"ServiceUnavailable":                     true,
}

// classify maps SDK failures onto the docstore sentinels. Context errors
// pass through so the timeout decorator can recognise them.
func classify(op, table string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("dynamodb %s %s: %w", op, table, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if throttlingCodes[apiErr.ErrorCode()] || apiErr.ErrorFault() == smithy.FaultServer {
			return fmt.Errorf("%w: dynamodb %s %s: %w", docstore.ErrStoreUnavailable, op, table, err)
		}
		return fmt.Errorf("%w: dynamodb %s %s: %w", docstore.ErrStore, op, table, err)
	}

	// no API error code means the request never got a service response
	return fmt.Errorf("%w: dynamodb %s %s: %w", docstore.ErrStoreUnavailable, op, table, err)
}
