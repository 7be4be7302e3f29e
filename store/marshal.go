package store

import (
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// MarshalItem converts a Go value into an Item using the SDK's
// attributevalue encoding.
func MarshalItem(v any) (Item, error) {
	m, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, err
	}
	return Item(m), nil
}

// MarshalKey converts a Go value into a PK using the SDK's attributevalue
// encoding. The value should contain only key attributes; extra attributes
// end up in the key and participate in key matching.
func MarshalKey(v any) (PK, error) {
	m, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, err
	}
	return PK(m), nil
}
