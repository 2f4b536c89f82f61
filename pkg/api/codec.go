package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Codec marshals plain Go structs as JSON. It replaces Connect's default
// "json" codec, which only accepts protobuf messages.
type Codec struct {
	name string
}

// Name implements connect.Codec.
func (c Codec) Name() string {
	if c.name == "" {
		return "json"
	}
	return c.name
}

// Marshal implements connect.Codec.
func (c Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty payload leaves msg untouched.
func (c Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithJSON registers Codec under both names Connect clients send for JSON.
func WithJSON() connect.Option {
	return connect.WithOptions(
		connect.WithCodec(Codec{}),
		connect.WithCodec(Codec{name: "json; charset=utf-8"}),
	)
}
