// Package store provides a resilient batching layer over a DynamoDB client.
package store

import (
	"bytes"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// Item represents a full DynamoDB record.
type Item map[string]types.AttributeValue

// WriteRequest maps table names to ordered lists of write entries
// (puts or deletes). It is the input shape for [Store.BatchWrite] and
// the unit produced by [SplitWriteRequest].
type WriteRequest map[string][]types.WriteRequest

// Entries returns the total number of write entries across all tables.
func (w WriteRequest) Entries() int {
	n := 0
	for _, entries := range w {
		n += len(entries)
	}
	return n
}

// keysMatch reports whether key identifies candidate. With keyAttrs set
// (a registered key schema), exactly those attributes are compared on both
// sides. Without it, every attribute of key must match in candidate and
// extra candidate attributes are ignored; see [Registry] for the tighter
// semantics.
func keysMatch(key PK, candidate map[string]types.AttributeValue, keyAttrs []string) bool {
	if len(keyAttrs) > 0 {
		for _, attr := range keyAttrs {
			kv, ok := key[attr]
			if !ok {
				return false
			}
			cv, ok := candidate[attr]
			if !ok {
				return false
			}
			if !attributeValuesEqual(kv, cv) {
				return false
			}
		}
		return true
	}

	if len(key) == 0 {
		return false
	}
	for attr, kv := range key {
		cv, ok := candidate[attr]
		if !ok {
			return false
		}
		if !attributeValuesEqual(kv, cv) {
			return false
		}
	}
	return true
}

// attributeValuesEqual compares two attribute values of the scalar kinds
// DynamoDB allows in key schemas (S, N, B), plus BOOL and NULL.
func attributeValuesEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberB:
		bv, ok := b.(*types.AttributeValueMemberB)
		return ok && bytes.Equal(av.Value, bv.Value)
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberNULL:
		bv, ok := b.(*types.AttributeValueMemberNULL)
		return ok && av.Value == bv.Value
	}
	return false
}
