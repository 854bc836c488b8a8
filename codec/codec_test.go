package codec

import (
	"pairchat/contract"
	"pairchat/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestStruct_Keeps_Times_And_Sentinels(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 3, 1, 10, 30, 0, 123456789, time.UTC)

	// Given a message document with a resolved and a pending timestamp
	data := map[string]any{
		"text":      "hello",
		"createdAt": at,
		"timestamp": contract.ServerTimestamp,
		"nested":    map[string]any{"seen": true},
	}

	// When it goes through the protobuf encoding, as it does on disk
	s, err := ToStruct(data)
	req.NoError(err)
	raw, err := proto.Marshal(s)
	req.NoError(err)
	var decoded structpb.Struct
	req.NoError(proto.Unmarshal(raw, &decoded))
	back := FromStruct(&decoded)

	// Then Go types are restored
	req.Equal("hello", back["text"])
	req.Equal(at, back["createdAt"])
	req.Equal(contract.ServerTimestamp, back["timestamp"])
	req.Equal(map[string]any{"seen": true}, back["nested"])
}

func TestToValue_Numbers_Become_Float(t *testing.T) {
	req := require.New(t)
	for _, n := range []any{int(3), int32(3), int64(3), float32(3), float64(3)} {
		v, err := ToValue(n)
		req.NoError(err)
		req.Equal(float64(3), FromValue(v))
	}
}

func TestToValue_Rejects_Unsupported_Types(t *testing.T) {
	req := require.New(t)

	_, err := ToStruct(map[string]any{"ch": make(chan int)})

	req.ErrorIs(err, errors.ErrInvalidDocument)
	req.Contains(err.Error(), `"ch"`)
}

func TestToValue_String_Collections(t *testing.T) {
	req := require.New(t)

	s, err := ToStruct(map[string]any{
		"participants":     []string{"u1", "u2"},
		"participantNames": map[string]string{"u1": "Alice"},
	})
	req.NoError(err)
	back := FromStruct(s)

	req.Equal([]string{"u1", "u2"}, AsStrings(back, "participants"))
	req.Equal(map[string]string{"u1": "Alice"}, AsStringMap(back, "participantNames"))
}

func TestResolveServerTimestamps(t *testing.T) {
	req := require.New(t)
	at := time.Now().UTC()
	data := map[string]any{
		"timestamp": contract.ServerTimestamp,
		"list":      []any{contract.ServerTimestamp, "x"},
		"text":      "hi",
	}

	resolved := ResolveServerTimestamps(data, at)

	req.Equal(at, resolved["timestamp"])
	req.Equal([]any{at, "x"}, resolved["list"])
	req.Equal("hi", resolved["text"])
	// And the input is left untouched
	req.Equal(contract.ServerTimestamp, data["timestamp"])
}

func TestAsMillis(t *testing.T) {
	req := require.New(t)
	at := time.UnixMilli(1_700_000_000_123).UTC()
	data := map[string]any{
		"time":    at,
		"float":   float64(42),
		"int":     int64(7),
		"pending": contract.ServerTimestamp,
		"text":    "nope",
	}

	req.Equal(int64(1_700_000_000_123), AsMillis(data, "time"))
	req.Equal(int64(42), AsMillis(data, "float"))
	req.Equal(int64(7), AsMillis(data, "int"))
	req.Zero(AsMillis(data, "pending"))
	req.Zero(AsMillis(data, "text"))
	req.Zero(AsMillis(data, "missing"))

	got, ok := AsTime(data, "time")
	req.True(ok)
	req.Equal(at, got)
	_, ok = AsTime(data, "pending")
	req.False(ok)
}
