package types

import (
	"encoding/json"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
)

var (
	// PositionValue is the collections value codec for Position.
	PositionValue collcodec.ValueCodec[Position] = jsonValue[Position]{name: "strategy.Position"}
	// RateSnapshotValue is the collections value codec for RateSnapshot.
	RateSnapshotValue collcodec.ValueCodec[RateSnapshot] = jsonValue[RateSnapshot]{name: "strategy.RateSnapshot"}
)

// jsonValue stores plain Go structs in collections using their JSON form.
type jsonValue[T any] struct {
	name string
}

func (v jsonValue[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (v jsonValue[T]) Decode(b []byte) (T, error) {
	var value T
	if err := json.Unmarshal(b, &value); err != nil {
		return value, fmt.Errorf("failed to decode %s: %w", v.name, err)
	}
	return value, nil
}

func (v jsonValue[T]) EncodeJSON(value T) ([]byte, error) {
	return v.Encode(value)
}

func (v jsonValue[T]) DecodeJSON(b []byte) (T, error) {
	return v.Decode(b)
}

func (v jsonValue[T]) Stringify(value T) string {
	bz, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%+v", value)
	}
	return string(bz)
}

func (v jsonValue[T]) ValueType() string {
	return v.name
}
