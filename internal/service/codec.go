package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// jsonCodec carries plain Go structs as application/json. It replaces
// Connect's protobuf JSON codec, which only accepts proto messages.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}

// WithJSONCodec is the codec option handlers and clients of
// SchedulingService must share.
func WithJSONCodec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
