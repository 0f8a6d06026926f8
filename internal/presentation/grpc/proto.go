package grpc

// proto.go defines the gRPC server interface for risk.v1.RiskService. Messages
// travel with the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/risk-service/internal/application/dto"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "risk.v1.RiskService"

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	CreateRisk(context.Context, *CreateRiskRequest) (*dto.RiskResponse, error)
	GetRisk(context.Context, *GetRiskRequest) (*dto.RiskResponse, error)
	ListRisks(context.Context, *ListRisksRequest) (*dto.ListRisksResponse, error)
	UpdateRisk(context.Context, *UpdateRiskRequest) (*dto.RiskResponse, error)
	AssessRisk(context.Context, *AssessRiskRequest) (*dto.RiskResponse, error)
	ChangeRiskStatus(context.Context, *ChangeRiskStatusRequest) (*dto.RiskResponse, error)
	CloseRisk(context.Context, *CloseRiskRequest) (*dto.RiskResponse, error)
	AssignRisk(context.Context, *AssignRiskRequest) (*dto.RiskResponse, error)
	DeleteRisk(context.Context, *DeleteRiskRequest) (*DeleteRiskResponse, error)
	GetRiskHistory(context.Context, *GetRiskHistoryRequest) (*dto.GetRiskHistoryResponse, error)
	CalculateScore(context.Context, *CalculateScoreRequest) (*dto.CalculateScoreResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedRiskServiceServer) CreateRisk(context.Context, *CreateRiskRequest) (*dto.RiskResponse, error) {
	return nil, unimplemented("CreateRisk")
}
func (UnimplementedRiskServiceServer) GetRisk(context.Context, *GetRiskRequest) (*dto.RiskResponse, error) {
	return nil, unimplemented("GetRisk")
}
func (UnimplementedRiskServiceServer) ListRisks(context.Context, *ListRisksRequest) (*dto.ListRisksResponse, error) {
	return nil, unimplemented("ListRisks")
}
func (UnimplementedRiskServiceServer) UpdateRisk(context.Context, *UpdateRiskRequest) (*dto.RiskResponse, error) {
	return nil, unimplemented("UpdateRisk")
}
func (UnimplementedRiskServiceServer) AssessRisk(context.Context, *AssessRiskRequest) (*dto.RiskResponse, error) {
	return nil, unimplemented("AssessRisk")
}
func (UnimplementedRiskServiceServer) ChangeRiskStatus(context.Context, *ChangeRiskStatusRequest) (*dto.RiskResponse, error) {
	return nil, unimplemented("ChangeRiskStatus")
}
func (UnimplementedRiskServiceServer) CloseRisk(context.Context, *CloseRiskRequest) (*dto.RiskResponse, error) {
	return nil, unimplemented("CloseRisk")
}
func (UnimplementedRiskServiceServer) AssignRisk(context.Context, *AssignRiskRequest) (*dto.RiskResponse, error) {
	return nil, unimplemented("AssignRisk")
}
func (UnimplementedRiskServiceServer) DeleteRisk(context.Context, *DeleteRiskRequest) (*DeleteRiskResponse, error) {
	return nil, unimplemented("DeleteRisk")
}
func (UnimplementedRiskServiceServer) GetRiskHistory(context.Context, *GetRiskHistoryRequest) (*dto.GetRiskHistoryResponse, error) {
	return nil, unimplemented("GetRiskHistory")
}
func (UnimplementedRiskServiceServer) CalculateScore(context.Context, *CalculateScoreRequest) (*dto.CalculateScoreResponse, error) {
	return nil, unimplemented("CalculateScore")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&riskServiceDesc, srv)
}

var riskServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unary("CreateRisk", RiskServiceServer.CreateRisk),
		unary("GetRisk", RiskServiceServer.GetRisk),
		unary("ListRisks", RiskServiceServer.ListRisks),
		unary("UpdateRisk", RiskServiceServer.UpdateRisk),
		unary("AssessRisk", RiskServiceServer.AssessRisk),
		unary("ChangeRiskStatus", RiskServiceServer.ChangeRiskStatus),
		unary("CloseRisk", RiskServiceServer.CloseRisk),
		unary("AssignRisk", RiskServiceServer.AssignRisk),
		unary("DeleteRisk", RiskServiceServer.DeleteRisk),
		unary("GetRiskHistory", RiskServiceServer.GetRiskHistory),
		unary("CalculateScore", RiskServiceServer.CalculateScore),
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "risk/v1/risk.proto",
}

// unary builds the method descriptor for one RPC, decoding the request and
// running it through the interceptor chain.
func unary[Req, Resp any](
	method string,
	call func(RiskServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodDesc {
	fullMethod := FullMethod(method)
	return grpclib.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RiskServiceServer), ctx, in)
			}
			info := &grpclib.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RiskServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns the gRPC path of a RiskService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}
