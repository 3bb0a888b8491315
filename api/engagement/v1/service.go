// Package engagementv1 defines the EngagementService gRPC contract: request and response
// messages, the service descriptor and a client. Messages travel as JSON (see CodecName).
package engagementv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "onboardflow.v1.EngagementService"

// FullMethod returns the gRPC full method name of method (e.g. /onboardflow.v1.EngagementService/CompleteDay).
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// EngagementServiceServer is the server API for EngagementService.
type EngagementServiceServer interface {
	GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error)
	EnrollProfile(context.Context, *EnrollProfileRequest) (*ProfileResponse, error)

	ListDays(context.Context, *ListDaysRequest) (*ListDaysResponse, error)
	CompleteDay(context.Context, *CompleteDayRequest) (*ProfileResponse, error)
	AdvancePhase(context.Context, *AdvancePhaseRequest) (*ProfileResponse, error)
	GoToPhase(context.Context, *GoToPhaseRequest) (*ProfileResponse, error)
	RecordSignoff(context.Context, *RecordSignoffRequest) (*ProfileResponse, error)
	SubmitFeedback(context.Context, *SubmitFeedbackRequest) (*ProfileResponse, error)
	Graduate(context.Context, *GraduateRequest) (*ProfileResponse, error)

	SelectDailyCards(context.Context, *SelectDailyCardsRequest) (*SelectDailyCardsResponse, error)
	ExplainCard(context.Context, *ExplainCardRequest) (*ExplainCardResponse, error)

	SubmitFlag(context.Context, *SubmitFlagRequest) (*ModerationStateResponse, error)
	GetModerationState(context.Context, *GetModerationStateRequest) (*ModerationStateResponse, error)

	GetReadiness(context.Context, *GetReadinessRequest) (*ReadinessResponse, error)
	UpdateItemStatus(context.Context, *UpdateItemStatusRequest) (*ItemResponse, error)
	EscalateItem(context.Context, *EscalateItemRequest) (*ItemResponse, error)

	GenerateActionQueue(context.Context, *GenerateActionQueueRequest) (*ActionQueueResponse, error)
	AcknowledgeAction(context.Context, *AcknowledgeActionRequest) (*ActionQueueResponse, error)
	ApplyStaffingPlan(context.Context, *ApplyStaffingPlanRequest) (*ApplyStaffingPlanResponse, error)

	ListActivity(context.Context, *ListActivityRequest) (*ListActivityResponse, error)
}

// unary builds the method descriptor for one RPC. call is a method expression on EngagementServiceServer.
func unary[Req, Resp any](name string, call func(EngagementServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(EngagementServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// EngagementServiceDesc is the grpc.ServiceDesc for EngagementService.
var EngagementServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngagementServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetProfile", EngagementServiceServer.GetProfile),
		unary("EnrollProfile", EngagementServiceServer.EnrollProfile),
		unary("ListDays", EngagementServiceServer.ListDays),
		unary("CompleteDay", EngagementServiceServer.CompleteDay),
		unary("AdvancePhase", EngagementServiceServer.AdvancePhase),
		unary("GoToPhase", EngagementServiceServer.GoToPhase),
		unary("RecordSignoff", EngagementServiceServer.RecordSignoff),
		unary("SubmitFeedback", EngagementServiceServer.SubmitFeedback),
		unary("Graduate", EngagementServiceServer.Graduate),
		unary("SelectDailyCards", EngagementServiceServer.SelectDailyCards),
		unary("ExplainCard", EngagementServiceServer.ExplainCard),
		unary("SubmitFlag", EngagementServiceServer.SubmitFlag),
		unary("GetModerationState", EngagementServiceServer.GetModerationState),
		unary("GetReadiness", EngagementServiceServer.GetReadiness),
		unary("UpdateItemStatus", EngagementServiceServer.UpdateItemStatus),
		unary("EscalateItem", EngagementServiceServer.EscalateItem),
		unary("GenerateActionQueue", EngagementServiceServer.GenerateActionQueue),
		unary("AcknowledgeAction", EngagementServiceServer.AcknowledgeAction),
		unary("ApplyStaffingPlan", EngagementServiceServer.ApplyStaffingPlan),
		unary("ListActivity", EngagementServiceServer.ListActivity),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "onboardflow/v1/engagement",
}

// RegisterEngagementServiceServer registers srv with s.
func RegisterEngagementServiceServer(s grpc.ServiceRegistrar, srv EngagementServiceServer) {
	s.RegisterService(&EngagementServiceDesc, srv)
}

// UnimplementedEngagementServiceServer returns Unimplemented for every RPC. Embed it to stay
// forward compatible.
type UnimplementedEngagementServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedEngagementServiceServer) GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error) {
	return nil, unimplemented("GetProfile")
}
func (UnimplementedEngagementServiceServer) EnrollProfile(context.Context, *EnrollProfileRequest) (*ProfileResponse, error) {
	return nil, unimplemented("EnrollProfile")
}
func (UnimplementedEngagementServiceServer) ListDays(context.Context, *ListDaysRequest) (*ListDaysResponse, error) {
	return nil, unimplemented("ListDays")
}
func (UnimplementedEngagementServiceServer) CompleteDay(context.Context, *CompleteDayRequest) (*ProfileResponse, error) {
	return nil, unimplemented("CompleteDay")
}
func (UnimplementedEngagementServiceServer) AdvancePhase(context.Context, *AdvancePhaseRequest) (*ProfileResponse, error) {
	return nil, unimplemented("AdvancePhase")
}
func (UnimplementedEngagementServiceServer) GoToPhase(context.Context, *GoToPhaseRequest) (*ProfileResponse, error) {
	return nil, unimplemented("GoToPhase")
}
func (UnimplementedEngagementServiceServer) RecordSignoff(context.Context, *RecordSignoffRequest) (*ProfileResponse, error) {
	return nil, unimplemented("RecordSignoff")
}
func (UnimplementedEngagementServiceServer) SubmitFeedback(context.Context, *SubmitFeedbackRequest) (*ProfileResponse, error) {
	return nil, unimplemented("SubmitFeedback")
}
func (UnimplementedEngagementServiceServer) Graduate(context.Context, *GraduateRequest) (*ProfileResponse, error) {
	return nil, unimplemented("Graduate")
}
func (UnimplementedEngagementServiceServer) SelectDailyCards(context.Context, *SelectDailyCardsRequest) (*SelectDailyCardsResponse, error) {
	return nil, unimplemented("SelectDailyCards")
}
func (UnimplementedEngagementServiceServer) ExplainCard(context.Context, *ExplainCardRequest) (*ExplainCardResponse, error) {
	return nil, unimplemented("ExplainCard")
}
func (UnimplementedEngagementServiceServer) SubmitFlag(context.Context, *SubmitFlagRequest) (*ModerationStateResponse, error) {
	return nil, unimplemented("SubmitFlag")
}
func (UnimplementedEngagementServiceServer) GetModerationState(context.Context, *GetModerationStateRequest) (*ModerationStateResponse, error) {
	return nil, unimplemented("GetModerationState")
}
func (UnimplementedEngagementServiceServer) GetReadiness(context.Context, *GetReadinessRequest) (*ReadinessResponse, error) {
	return nil, unimplemented("GetReadiness")
}
func (UnimplementedEngagementServiceServer) UpdateItemStatus(context.Context, *UpdateItemStatusRequest) (*ItemResponse, error) {
	return nil, unimplemented("UpdateItemStatus")
}
func (UnimplementedEngagementServiceServer) EscalateItem(context.Context, *EscalateItemRequest) (*ItemResponse, error) {
	return nil, unimplemented("EscalateItem")
}
func (UnimplementedEngagementServiceServer) GenerateActionQueue(context.Context, *GenerateActionQueueRequest) (*ActionQueueResponse, error) {
	return nil, unimplemented("GenerateActionQueue")
}
func (UnimplementedEngagementServiceServer) AcknowledgeAction(context.Context, *AcknowledgeActionRequest) (*ActionQueueResponse, error) {
	return nil, unimplemented("AcknowledgeAction")
}
func (UnimplementedEngagementServiceServer) ApplyStaffingPlan(context.Context, *ApplyStaffingPlanRequest) (*ApplyStaffingPlanResponse, error) {
	return nil, unimplemented("ApplyStaffingPlan")
}
func (UnimplementedEngagementServiceServer) ListActivity(context.Context, *ListActivityRequest) (*ListActivityResponse, error) {
	return nil, unimplemented("ListActivity")
}
