package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
)

// ProductRepository reads the product catalog and applies the ledger's
// conditional inventory writes against a DynamoDB table.
type ProductRepository struct {
	client    DynamoDBAPI
	tableName string
}

func NewProductRepository(client DynamoDBAPI, tableName string) *ProductRepository {
	return &ProductRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, classifyErr(err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("%w: product %s", domain.ErrProductNotFound, id)
	}

	var product domain.Product
	if err := attributevalue.UnmarshalMap(out.Item, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyErr(err)
		}
		var batch []domain.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		products = append(products, batch...)
	}
	return products, nil
}

func (r *ProductRepository) Put(ctx context.Context, product *domain.Product) error {
	if err := checkTableReady(ctx, r.client, r.tableName); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return classifyErr(err)
	}
	return nil
}

// SetInventoryCount writes the new count only if the stored count still
// matches the value the caller read. A concurrent decrement between that
// read and this write trips the condition instead of being overwritten.
func (r *ProductRepository) SetInventoryCount(ctx context.Context, productID string, expected, next int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: productID},
		},
		UpdateExpression:    aws.String("SET inventory_count = :next"),
		ConditionExpression: aws.String("inventory_count = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":next":     &types.AttributeValueMemberS{Value: strconv.Itoa(next)},
			":expected": &types.AttributeValueMemberS{Value: strconv.Itoa(expected)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return fmt.Errorf("%w: product %s", domain.ErrConcurrentUpdate, productID)
		}
		return classifyErr(err)
	}
	return nil
}
