// Package stream provides DynamoDB Streams handlers that replay table
// changes through the resilient store.
package stream

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/buttress/store"
)

// BatchWriter is the store capability the handler writes through.
// *store.Store satisfies it.
type BatchWriter interface {
	BatchWrite(ctx context.Context, req store.WriteRequest) error
}

// Handler replays DynamoDB stream events into a target table.
type Handler struct {
	target BatchWriter
	table  string
	logger *slog.Logger
}

// NewHandler creates a new stream handler writing to table via target.
func NewHandler(target BatchWriter, table string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		target: target,
		table:  table,
		logger: logger,
	}
}

// HandleReplay mirrors one batch of stream records into the target table:
// inserts and modifications become puts of the new image, removals become
// deletes of the record key. Records for the same key collapse to the
// latest write: a shard delivers changes to a key in order, and a batch
// write rejects requests carrying the same key twice. The whole batch then
// goes through one BatchWrite, so size chunking and transient-fault retry
// apply downstream.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleReplay(ctx context.Context, event events.DynamoDBEvent) error {
	var writes []types.WriteRequest
	var keys []map[string]events.DynamoDBAttributeValue
	for _, record := range event.Records {
		w, err := convertRecord(record)
		if err != nil {
			h.logger.Error("failed to convert record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
		if w == nil {
			continue
		}
		if i := indexOfKey(keys, record.Change.Keys); i >= 0 {
			writes[i] = *w
			continue
		}
		writes = append(writes, *w)
		keys = append(keys, record.Change.Keys)
	}

	if len(writes) == 0 {
		return nil
	}

	h.logger.Info("replaying stream records",
		"table", h.table,
		"records", len(event.Records),
		"writes", len(writes),
	)

	if err := h.target.BatchWrite(ctx, store.WriteRequest{h.table: writes}); err != nil {
		h.logger.Error("replay batch write failed",
			"table", h.table,
			"error", err,
		)
		return err
	}
	return nil
}

// convertRecord maps one stream record onto a write entry. Records with
// nothing to write (unknown event names, empty images) are skipped.
func convertRecord(record events.DynamoDBEventRecord) (*types.WriteRequest, error) {
	switch record.EventName {
	case "INSERT", "MODIFY":
		image := record.Change.NewImage
		if len(image) == 0 {
			return nil, nil
		}
		return &types.WriteRequest{
			PutRequest: &types.PutRequest{Item: ConvertImage(image)},
		}, nil
	case "REMOVE":
		key := record.Change.Keys
		if len(key) == 0 {
			return nil, fmt.Errorf("remove record %s has no keys", record.EventID)
		}
		return &types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: ConvertStreamKey(key)},
		}, nil
	}
	return nil, nil
}

// indexOfKey returns the position of key among keys, or -1. Records without
// key attributes never match, so they cannot collapse into each other.
func indexOfKey(keys []map[string]events.DynamoDBAttributeValue, key map[string]events.DynamoDBAttributeValue) int {
	if len(key) == 0 {
		return -1
	}
	for i, k := range keys {
		if sameStreamKey(k, key) {
			return i
		}
	}
	return -1
}

// sameStreamKey reports whether two stream key maps name the same item.
func sameStreamKey(a, b map[string]events.DynamoDBAttributeValue) bool {
	if len(a) != len(b) {
		return false
	}
	for name, av := range a {
		bv, ok := b[name]
		if !ok || !sameScalarAttribute(av, bv) {
			return false
		}
	}
	return true
}

// sameScalarAttribute compares the attribute kinds a key can hold. Key
// attributes are always scalar strings, numbers, or binary values.
func sameScalarAttribute(a, b events.DynamoDBAttributeValue) bool {
	if a.DataType() != b.DataType() {
		return false
	}
	switch a.DataType() {
	case events.DataTypeString:
		return a.String() == b.String()
	case events.DataTypeNumber:
		return a.Number() == b.Number()
	case events.DataTypeBinary:
		return bytes.Equal(a.Binary(), b.Binary())
	}
	return false
}

// ConvertImage converts a DynamoDB stream image to a store.Item.
// Use this when full record images from stream records feed store operations.
func ConvertImage(image map[string]events.DynamoDBAttributeValue) store.Item {
	result := make(store.Item, len(image))
	for k, v := range image {
		if av := convertAttribute(v); av != nil {
			result[k] = av
		}
	}
	return result
}

// ConvertStreamKey converts a DynamoDB stream key to a store.PK.
// Use this when you need to convert keys from stream records to store operations.
func ConvertStreamKey(streamKey map[string]events.DynamoDBAttributeValue) store.PK {
	result := make(store.PK, len(streamKey))
	for k, v := range streamKey {
		if av := convertAttribute(v); av != nil {
			result[k] = av
		}
	}
	return result
}

// convertAttribute maps one stream attribute value onto the SDK type,
// recursing into lists and maps. Unknown kinds convert to nil.
func convertAttribute(v events.DynamoDBAttributeValue) types.AttributeValue {
	switch v.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: v.String()}
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: v.Number()}
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: v.Binary()}
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: v.Boolean()}
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: v.IsNull()}
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: v.StringSet()}
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: v.NumberSet()}
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: v.BinarySet()}
	case events.DataTypeList:
		list := make([]types.AttributeValue, 0, len(v.List()))
		for _, item := range v.List() {
			if av := convertAttribute(item); av != nil {
				list = append(list, av)
			}
		}
		return &types.AttributeValueMemberL{Value: list}
	case events.DataTypeMap:
		m := make(map[string]types.AttributeValue, len(v.Map()))
		for k, item := range v.Map() {
			if av := convertAttribute(item); av != nil {
				m[k] = av
			}
		}
		return &types.AttributeValueMemberM{Value: m}
	}
	return nil
}
