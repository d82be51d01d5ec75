package store

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

type DynamoDBStoreProvider struct {
	ddb       *dynamodb.DynamoDB
	keys      keyPrefix
	tableName string
	region    string
}

func (p *DynamoDBStoreProvider) InitStores() error {
	if p.tableName == "" {
		return fmt.Errorf("dynamodb table name is not set")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(p.region),
	})
	if err != nil {
		return err
	}
	p.ddb = dynamodb.New(sess)
	return nil
}

func (p *DynamoDBStoreProvider) itemKey(storeName, key string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"StoreName": {S: aws.String(storeName)},
		"Key":       {S: aws.String(p.keys.apply(key))},
	}
}

func (p *DynamoDBStoreProvider) GetValue(storeName, key string) (interface{}, bool) {
	result, err := p.ddb.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(p.tableName),
		Key:       p.itemKey(storeName, key),
	})
	if err != nil {
		logger.Errorf("failed to get item: %v", err)
		return nil, false
	}
	if result.Item == nil || result.Item["Value"] == nil || result.Item["Value"].S == nil {
		return nil, false
	}
	var value interface{}
	if err := json.Unmarshal([]byte(*result.Item["Value"].S), &value); err != nil {
		logger.Errorf("failed to unmarshal value: %v", err)
		return nil, false
	}
	return value, true
}

func (p *DynamoDBStoreProvider) StoreValue(storeName, key string, value interface{}) {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("failed to marshal value: %v", err)
		return
	}
	item := p.itemKey(storeName, key)
	item["Value"] = &dynamodb.AttributeValue{S: aws.String(string(valueBytes))}
	_, err = p.ddb.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(p.tableName),
		Item:      item,
	})
	if err != nil {
		logger.Errorf("failed to put item: %v", err)
	}
}

func (p *DynamoDBStoreProvider) GetAllValues(storeName, keyPrefix string) map[string]interface{} {
	result, err := p.ddb.Query(&dynamodb.QueryInput{
		TableName:              aws.String(p.tableName),
		KeyConditionExpression: aws.String("StoreName = :storeName AND begins_with(#k, :keyPrefix)"),
		ExpressionAttributeNames: map[string]*string{
			"#k": aws.String("Key"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":storeName": {S: aws.String(storeName)},
			":keyPrefix": {S: aws.String(p.keys.apply(keyPrefix))},
		},
	})
	if err != nil {
		logger.Errorf("failed to query items: %v", err)
		return nil
	}
	items := make(map[string]interface{})
	for _, item := range result.Items {
		var value interface{}
		if err := json.Unmarshal([]byte(aws.StringValue(item["Value"].S)), &value); err != nil {
			logger.Errorf("failed to unmarshal value: %v", err)
			continue
		}
		items[p.keys.remove(aws.StringValue(item["Key"].S))] = value
	}
	return items
}

func (p *DynamoDBStoreProvider) DeleteValue(storeName, key string) {
	_, err := p.ddb.DeleteItem(&dynamodb.DeleteItemInput{
		TableName: aws.String(p.tableName),
		Key:       p.itemKey(storeName, key),
	})
	if err != nil {
		logger.Errorf("failed to delete item: %v", err)
	}
}

func (p *DynamoDBStoreProvider) DeleteStore(storeName string) {
	for key := range p.GetAllValues(storeName, "") {
		p.DeleteValue(storeName, key)
	}
}
