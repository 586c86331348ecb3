package persist

import (
	"encoding/json"

	"github.com/go-drift/statekit/pkg/errors"
)

// Codec converts a value to and from its persisted token.
//
// Encode never fails. Decode returns an error for tokens it cannot read;
// callers recover by falling back to their default and overwriting the
// stored token, so Decode must not panic.
type Codec[T any] interface {
	Encode(value T) string
	Decode(token string) (T, error)
}

// CodecFuncs adapts a pair of functions to Codec.
type CodecFuncs[T any] struct {
	EncodeFunc func(T) string
	DecodeFunc func(string) (T, error)
}

// Encode implements Codec.
func (c CodecFuncs[T]) Encode(value T) string { return c.EncodeFunc(value) }

// Decode implements Codec.
func (c CodecFuncs[T]) Decode(token string) (T, error) { return c.DecodeFunc(token) }

// JSONCodec persists values as JSON documents.
type JSONCodec[T any] struct{}

// Encode implements Codec. Values that cannot be marshalled encode as "null",
// which Decode then rejects, so the caller falls back to its default.
func (JSONCodec[T]) Encode(value T) string {
	data, err := json.Marshal(value)
	if err != nil {
		return "null"
	}
	return string(data)
}

// Decode implements Codec.
func (JSONCodec[T]) Decode(token string) (T, error) {
	var v T
	if token == "" || token == "null" {
		return v, &errors.DecodeError{Token: token, Reason: "empty document"}
	}
	if err := json.Unmarshal([]byte(token), &v); err != nil {
		return v, &errors.DecodeError{Token: token, Reason: err.Error()}
	}
	return v, nil
}
