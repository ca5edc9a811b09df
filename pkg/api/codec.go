package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the connect codec name; requests travel as application/json
// (Connect protocol) or application/grpc+json.
const CodecName = "json"

// JSONCodec serializes the plain Go messages of this package with
// encoding/json. It replaces connect's protobuf-only "json" codec so the
// service can be called with curl or fetch without generated code.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero
// message.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
