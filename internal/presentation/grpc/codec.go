package grpc

import (
	"encoding/json"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// jsonCodec is a gRPC codec that uses JSON encoding.
// This allows serving and calling the service without proto-generated types.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}

// init registers the JSON codec with the gRPC encoding registry.
func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// CallOption forces JSON encoding on the wire for a client call.
func CallOption() grpclib.CallOption {
	return grpclib.ForceCodecCallOption{Codec: jsonCodec{}}
}
