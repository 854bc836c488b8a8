// Package codec converts document data to and from protobuf Struct values.
// The same encoding is used for BadgerDB values and for the gRPC wire, so a
// document reads back with the same Go types whatever transport carried it.
package codec

import (
	"fmt"
	"pairchat/contract"
	"pairchat/errors"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Reserved single-field objects used for the types Struct has no kind for.
const (
	timeField            = "$time"
	serverTimestampField = "$serverTimestamp"
)

// ToStruct encodes document data.
func ToStruct(data map[string]any) (*structpb.Struct, error) {
	fields := make(map[string]*structpb.Value, len(data))
	for k, v := range data {
		value, err := ToValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = value
	}
	return &structpb.Struct{Fields: fields}, nil
}

// FromStruct decodes document data. A nil Struct yields an empty map.
func FromStruct(s *structpb.Struct) map[string]any {
	data := make(map[string]any, len(s.GetFields()))
	for k, v := range s.GetFields() {
		data[k] = FromValue(v)
	}
	return data
}

func ToValue(v any) (*structpb.Value, error) {
	switch val := v.(type) {
	case nil:
		return structpb.NewNullValue(), nil
	case string:
		return structpb.NewStringValue(val), nil
	case bool:
		return structpb.NewBoolValue(val), nil
	case int:
		return structpb.NewNumberValue(float64(val)), nil
	case int32:
		return structpb.NewNumberValue(float64(val)), nil
	case int64:
		return structpb.NewNumberValue(float64(val)), nil
	case float32:
		return structpb.NewNumberValue(float64(val)), nil
	case float64:
		return structpb.NewNumberValue(val), nil
	case time.Time:
		return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			timeField: structpb.NewStringValue(val.UTC().Format(time.RFC3339Nano)),
		}}), nil
	case contract.ServerTimestampValue:
		return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			serverTimestampField: structpb.NewBoolValue(true),
		}}), nil
	case []string:
		values := make([]*structpb.Value, 0, len(val))
		for _, s := range val {
			values = append(values, structpb.NewStringValue(s))
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	case []any:
		values := make([]*structpb.Value, 0, len(val))
		for i, item := range val {
			value, err := ToValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			values = append(values, value)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	case map[string]string:
		fields := make(map[string]*structpb.Value, len(val))
		for k, s := range val {
			fields[k] = structpb.NewStringValue(s)
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	case map[string]any:
		s, err := ToStruct(val)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(s), nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", errors.ErrInvalidDocument, v)
	}
}

func FromValue(v *structpb.Value) any {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return kind.NumberValue
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_BoolValue:
		return kind.BoolValue
	case *structpb.Value_ListValue:
		items := make([]any, 0, len(kind.ListValue.GetValues()))
		for _, item := range kind.ListValue.GetValues() {
			items = append(items, FromValue(item))
		}
		return items
	case *structpb.Value_StructValue:
		fields := kind.StructValue.GetFields()
		if len(fields) == 1 {
			if raw, ok := fields[timeField]; ok {
				if t, err := time.Parse(time.RFC3339Nano, raw.GetStringValue()); err == nil {
					return t.UTC()
				}
			}
			if _, ok := fields[serverTimestampField]; ok {
				return contract.ServerTimestamp
			}
		}
		return FromStruct(kind.StructValue)
	default:
		return nil
	}
}

// ResolveServerTimestamps returns a copy of data where every ServerTimestamp
// sentinel, at any depth, is replaced by at.
func ResolveServerTimestamps(data map[string]any, at time.Time) map[string]any {
	resolved := make(map[string]any, len(data))
	for k, v := range data {
		resolved[k] = resolveValue(v, at)
	}
	return resolved
}

func resolveValue(v any, at time.Time) any {
	switch val := v.(type) {
	case contract.ServerTimestampValue:
		return at
	case map[string]any:
		return ResolveServerTimestamps(val, at)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = resolveValue(item, at)
		}
		return items
	default:
		return v
	}
}
