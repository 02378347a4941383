package grpc

// proto.go defines the gRPC server interface for fraud.v1.FraudDetectionService
// by hand. Messages are plain Go structs carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Fully qualified names of the service and its methods.
const (
	ServiceName   = "fraud.v1.FraudDetectionService"
	PredictMethod = "/" + ServiceName + "/Predict"
)

// FraudDetectionServiceServer is the server API for FraudDetectionService.
type FraudDetectionServiceServer interface {
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	mustEmbedUnimplementedFraudDetectionServiceServer()
}

// UnimplementedFraudDetectionServiceServer provides forward-compatible default implementations.
type UnimplementedFraudDetectionServiceServer struct{}

func (UnimplementedFraudDetectionServiceServer) Predict(context.Context, *PredictRequest) (*PredictResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedFraudDetectionServiceServer) mustEmbedUnimplementedFraudDetectionServiceServer() {}

// RegisterFraudDetectionServiceServer registers the server with the gRPC server.
func RegisterFraudDetectionServiceServer(s grpclib.ServiceRegistrar, srv FraudDetectionServiceServer) {
	s.RegisterService(&_FraudDetectionService_serviceDesc, srv)
}

var _FraudDetectionService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FraudDetectionServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: _FraudDetectionService_Predict_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _FraudDetectionService_Predict_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(PredictRequest)
	if err := dec(req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "Invalid input: %s", status.Convert(err).Message())
	}
	if interceptor == nil {
		return srv.(FraudDetectionServiceServer).Predict(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: PredictMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FraudDetectionServiceServer).Predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// FraudDetectionServiceClient is the client API for FraudDetectionService.
type FraudDetectionServiceClient interface {
	Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error)
}

type fraudDetectionServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewFraudDetectionServiceClient wraps a connection. Calls are JSON encoded.
func NewFraudDetectionServiceClient(cc grpclib.ClientConnInterface) FraudDetectionServiceClient {
	return &fraudDetectionServiceClient{cc: cc}
}

func (c *fraudDetectionServiceClient) Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error) {
	out := new(PredictResponse)
	opts = append([]grpclib.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, PredictMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
