package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "ratings.v1.FeedbackRatings"

// FeedbackRatingsServer is the server API. Every message is a google.protobuf.Struct.
type FeedbackRatingsServer interface {
	GetRating(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRatings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordFeedback(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeRating(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(FeedbackRatingsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FeedbackRatingsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FeedbackRatingsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the FeedbackRatings service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FeedbackRatingsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetRating", Handler: unaryHandler("GetRating", FeedbackRatingsServer.GetRating)},
		{MethodName: "ListRatings", Handler: unaryHandler("ListRatings", FeedbackRatingsServer.ListRatings)},
		{MethodName: "RecordFeedback", Handler: unaryHandler("RecordFeedback", FeedbackRatingsServer.RecordFeedback)},
		{MethodName: "ComputeRating", Handler: unaryHandler("ComputeRating", FeedbackRatingsServer.ComputeRating)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ratings/v1/feedback_ratings",
}

// Client calls a remote FeedbackRatings service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRating(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetRating", in, opts...)
}

func (c *Client) ListRatings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListRatings", in, opts...)
}

func (c *Client) RecordFeedback(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "RecordFeedback", in, opts...)
}

func (c *Client) ComputeRating(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ComputeRating", in, opts...)
}
