package grpc

import (
	"encoding/json"
	"fmt"

	"github.com/godilite/feedback-ratings/internal/rating"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// toStruct converts any JSON-encodable value into a Struct. NaN numbers arrive as null
// because rating.Number marshals them that way.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return out, nil
}

// FromStruct decodes a response Struct into dest.
func FromStruct(s *structpb.Struct, dest any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return json.Unmarshal(data, dest)
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// counterField reads a counter that may be sent as a number or as raw text.
// Anything else, including a missing field, is NaN.
func counterField(req *structpb.Struct, name string) rating.Number {
	v, ok := req.GetFields()[name]
	if !ok {
		return rating.NaN()
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return rating.Number(k.NumberValue)
	case *structpb.Value_StringValue:
		return rating.ParseCounter(k.StringValue)
	}
	return rating.NaN()
}
