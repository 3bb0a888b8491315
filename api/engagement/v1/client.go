package engagementv1

import (
	"context"

	"google.golang.org/grpc"
)

// Client is the EngagementService client. Calls use the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a Client over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "GetProfile", in, opts)
}

func (c *Client) EnrollProfile(ctx context.Context, in *EnrollProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "EnrollProfile", in, opts)
}

func (c *Client) ListDays(ctx context.Context, in *ListDaysRequest, opts ...grpc.CallOption) (*ListDaysResponse, error) {
	return invoke[ListDaysResponse](ctx, c, "ListDays", in, opts)
}

func (c *Client) CompleteDay(ctx context.Context, in *CompleteDayRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "CompleteDay", in, opts)
}

func (c *Client) AdvancePhase(ctx context.Context, in *AdvancePhaseRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "AdvancePhase", in, opts)
}

func (c *Client) GoToPhase(ctx context.Context, in *GoToPhaseRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "GoToPhase", in, opts)
}

func (c *Client) RecordSignoff(ctx context.Context, in *RecordSignoffRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "RecordSignoff", in, opts)
}

func (c *Client) SubmitFeedback(ctx context.Context, in *SubmitFeedbackRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "SubmitFeedback", in, opts)
}

func (c *Client) Graduate(ctx context.Context, in *GraduateRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "Graduate", in, opts)
}

func (c *Client) SelectDailyCards(ctx context.Context, in *SelectDailyCardsRequest, opts ...grpc.CallOption) (*SelectDailyCardsResponse, error) {
	return invoke[SelectDailyCardsResponse](ctx, c, "SelectDailyCards", in, opts)
}

func (c *Client) ExplainCard(ctx context.Context, in *ExplainCardRequest, opts ...grpc.CallOption) (*ExplainCardResponse, error) {
	return invoke[ExplainCardResponse](ctx, c, "ExplainCard", in, opts)
}

func (c *Client) SubmitFlag(ctx context.Context, in *SubmitFlagRequest, opts ...grpc.CallOption) (*ModerationStateResponse, error) {
	return invoke[ModerationStateResponse](ctx, c, "SubmitFlag", in, opts)
}

func (c *Client) GetModerationState(ctx context.Context, in *GetModerationStateRequest, opts ...grpc.CallOption) (*ModerationStateResponse, error) {
	return invoke[ModerationStateResponse](ctx, c, "GetModerationState", in, opts)
}

func (c *Client) GetReadiness(ctx context.Context, in *GetReadinessRequest, opts ...grpc.CallOption) (*ReadinessResponse, error) {
	return invoke[ReadinessResponse](ctx, c, "GetReadiness", in, opts)
}

func (c *Client) UpdateItemStatus(ctx context.Context, in *UpdateItemStatusRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c, "UpdateItemStatus", in, opts)
}

func (c *Client) EscalateItem(ctx context.Context, in *EscalateItemRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c, "EscalateItem", in, opts)
}

func (c *Client) GenerateActionQueue(ctx context.Context, in *GenerateActionQueueRequest, opts ...grpc.CallOption) (*ActionQueueResponse, error) {
	return invoke[ActionQueueResponse](ctx, c, "GenerateActionQueue", in, opts)
}

func (c *Client) AcknowledgeAction(ctx context.Context, in *AcknowledgeActionRequest, opts ...grpc.CallOption) (*ActionQueueResponse, error) {
	return invoke[ActionQueueResponse](ctx, c, "AcknowledgeAction", in, opts)
}

func (c *Client) ApplyStaffingPlan(ctx context.Context, in *ApplyStaffingPlanRequest, opts ...grpc.CallOption) (*ApplyStaffingPlanResponse, error) {
	return invoke[ApplyStaffingPlanResponse](ctx, c, "ApplyStaffingPlan", in, opts)
}

func (c *Client) ListActivity(ctx context.Context, in *ListActivityRequest, opts ...grpc.CallOption) (*ListActivityResponse, error) {
	return invoke[ListActivityResponse](ctx, c, "ListActivity", in, opts)
}
