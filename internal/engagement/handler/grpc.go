// Package handler implements EngagementService on top of the onboarding, content, moderation,
// preboarding and team services. Identity comes from the interceptor chain; roles come from the
// caller's stored profile.
package handler

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	engagementv1 "onboardflow/api/engagement/v1"
	auditrepo "onboardflow/internal/audit/repository"
	"onboardflow/internal/content/feed"
	"onboardflow/internal/logging"
	moderationsvc "onboardflow/internal/moderation/service"
	onboardingsvc "onboardflow/internal/onboarding/service"
	"onboardflow/internal/platform/rbac"
	"onboardflow/internal/preboarding/poller"
	preboardingsvc "onboardflow/internal/preboarding/service"
	profile "onboardflow/internal/profile/domain"
	profilesvc "onboardflow/internal/profile/service"
	teamsvc "onboardflow/internal/team/service"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// Services holds the backing services. A nil service makes its RPCs return Unimplemented.
type Services struct {
	Profiles    *profilesvc.Store
	Journey     *onboardingsvc.Journey
	Feed        *feed.Service
	Moderation  *moderationsvc.Service
	Preboarding *preboardingsvc.Service
	// Poller, when set, is told about every user whose readiness is read so it keeps them fresh.
	Poller   *poller.Poller
	Team     *teamsvc.Service
	Activity auditrepo.Repository
}

// Server implements engagementv1.EngagementServiceServer.
type Server struct {
	engagementv1.UnimplementedEngagementServiceServer
	svc    Services
	logger *zap.Logger
}

// NewServer returns a new EngagementService server. logger may be nil.
func NewServer(svc Services, logger *zap.Logger) *Server {
	return &Server{svc: svc, logger: logging.OrNop(logger)}
}

func unavailable(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not configured", method)
}

// targetUser resolves the user an RPC acts on: the caller, or requested when set and different,
// which requires the MANAGER role.
func (s *Server) targetUser(ctx context.Context, requested string) (string, error) {
	caller, err := rbac.RequireUser(ctx)
	if err != nil {
		return "", err
	}
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == caller {
		return caller, nil
	}
	if _, err := rbac.RequireManager(ctx, s.svc.Journey); err != nil {
		return "", err
	}
	return requested, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(engagementv1.DateLayout, s)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "date must be %s", engagementv1.DateLayout)
	}
	return d, nil
}

// GetProfile returns the caller's (or, for managers, any user's) profile.
func (s *Server) GetProfile(ctx context.Context, req *engagementv1.GetProfileRequest) (*engagementv1.ProfileResponse, error) {
	if s.svc.Journey == nil {
		return nil, unavailable("GetProfile")
	}
	userID, err := s.targetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.Journey.Profile(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ProfileResponse{Profile: p}, nil
}

// EnrollProfile creates the profile and provisions the preboarding checklist from the catalog.
// Callers may enroll themselves as employees; enrolling anyone else, or anyone as a manager,
// requires the MANAGER role. An existing profile is never replaced.
func (s *Server) EnrollProfile(ctx context.Context, req *engagementv1.EnrollProfileRequest) (*engagementv1.ProfileResponse, error) {
	if s.svc.Profiles == nil || s.svc.Journey == nil {
		return nil, unavailable("EnrollProfile")
	}
	if req.Role != "" && req.Role != profile.RoleEmployee && req.Role != profile.RoleManager {
		return nil, status.Error(codes.InvalidArgument, "role must be EMPLOYEE or MANAGER")
	}
	userID, err := s.targetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if req.Role == profile.RoleManager {
		if _, err := rbac.RequireManager(ctx, s.svc.Journey); err != nil {
			return nil, err
		}
	}
	p, err := s.svc.Profiles.Enroll(ctx, userID, profile.UserProfile{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		JobTitle:     req.JobTitle,
		Department:   req.Department,
		RoleCategory: req.RoleCategory,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	if s.svc.Preboarding != nil && s.svc.Feed != nil {
		if _, err := s.svc.Preboarding.Provision(ctx, userID, s.svc.Feed.Catalog().PreboardingTemplates); err != nil {
			s.logger.Warn("enroll: preboarding provisioning failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return &engagementv1.ProfileResponse{Profile: p}, nil
}

// ListDays returns the derived status of every onboarding day for the caller.
func (s *Server) ListDays(ctx context.Context, _ *engagementv1.ListDaysRequest) (*engagementv1.ListDaysResponse, error) {
	if s.svc.Journey == nil {
		return nil, unavailable("ListDays")
	}
	userID, err := rbac.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	days, err := s.svc.Journey.Days(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ListDaysResponse{Days: days}, nil
}

// journeyOp runs one caller-scoped journey transition.
func (s *Server) journeyOp(ctx context.Context, method string, op func(userID string) (*profile.UserProfile, error)) (*engagementv1.ProfileResponse, error) {
	if s.svc.Journey == nil {
		return nil, unavailable(method)
	}
	userID, err := rbac.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := op(userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ProfileResponse{Profile: p}, nil
}

func (s *Server) CompleteDay(ctx context.Context, req *engagementv1.CompleteDayRequest) (*engagementv1.ProfileResponse, error) {
	return s.journeyOp(ctx, "CompleteDay", func(userID string) (*profile.UserProfile, error) {
		return s.svc.Journey.CompleteDay(ctx, userID, req.Day)
	})
}

func (s *Server) AdvancePhase(ctx context.Context, _ *engagementv1.AdvancePhaseRequest) (*engagementv1.ProfileResponse, error) {
	return s.journeyOp(ctx, "AdvancePhase", func(userID string) (*profile.UserProfile, error) {
		return s.svc.Journey.Advance(ctx, userID)
	})
}

func (s *Server) GoToPhase(ctx context.Context, req *engagementv1.GoToPhaseRequest) (*engagementv1.ProfileResponse, error) {
	return s.journeyOp(ctx, "GoToPhase", func(userID string) (*profile.UserProfile, error) {
		return s.svc.Journey.GoTo(ctx, userID, req.Phase)
	})
}

func (s *Server) SubmitFeedback(ctx context.Context, req *engagementv1.SubmitFeedbackRequest) (*engagementv1.ProfileResponse, error) {
	return s.journeyOp(ctx, "SubmitFeedback", func(userID string) (*profile.UserProfile, error) {
		return s.svc.Journey.SubmitFeedback(ctx, userID, req.Rating, req.Comment)
	})
}

func (s *Server) Graduate(ctx context.Context, _ *engagementv1.GraduateRequest) (*engagementv1.ProfileResponse, error) {
	return s.journeyOp(ctx, "Graduate", func(userID string) (*profile.UserProfile, error) {
		return s.svc.Journey.Graduate(ctx, userID)
	})
}

// RecordSignoff records the calling manager's signoff on the new hire req.UserID.
func (s *Server) RecordSignoff(ctx context.Context, req *engagementv1.RecordSignoffRequest) (*engagementv1.ProfileResponse, error) {
	if s.svc.Journey == nil {
		return nil, unavailable("RecordSignoff")
	}
	managerID, err := rbac.RequireManager(ctx, s.svc.Journey)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id is required")
	}
	p, err := s.svc.Journey.RecordSignoff(ctx, req.UserID, managerID, req.Note)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ProfileResponse{Profile: p}, nil
}

// SelectDailyCards returns the caller's daily cards. Source reports whether the cards came from the
// generator or the rule-based fallback.
func (s *Server) SelectDailyCards(ctx context.Context, req *engagementv1.SelectDailyCardsRequest) (*engagementv1.SelectDailyCardsResponse, error) {
	if s.svc.Feed == nil {
		return nil, unavailable("SelectDailyCards")
	}
	userID, err := rbac.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.Feed.SelectDailyCards(ctx, userID, date)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.SelectDailyCardsResponse{Cards: res.Cards, Source: string(res.Source)}, nil
}

func (s *Server) ExplainCard(ctx context.Context, req *engagementv1.ExplainCardRequest) (*engagementv1.ExplainCardResponse, error) {
	if s.svc.Feed == nil {
		return nil, unavailable("ExplainCard")
	}
	userID, err := rbac.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.CardID) == "" {
		return nil, status.Error(codes.InvalidArgument, "card_id is required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	text, err := s.svc.Feed.Explain(ctx, userID, req.CardID, feed.ExplainRequest{
		Date:                date,
		RecentlySeenCardIDs: req.RecentlySeenCardIDs,
		CurrentWorkload:     req.CurrentWorkload,
		RecentKPIAlerts:     req.RecentKPIAlerts,
		PendingDeadlines:    req.PendingDeadlines,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ExplainCardResponse{Explanation: text}, nil
}

// SubmitFlag flags a card on behalf of the caller.
func (s *Server) SubmitFlag(ctx context.Context, req *engagementv1.SubmitFlagRequest) (*engagementv1.ModerationStateResponse, error) {
	if s.svc.Moderation == nil {
		return nil, unavailable("SubmitFlag")
	}
	userID, err := rbac.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.Moderation.SubmitFlag(ctx, moderationsvc.FlagRequest{
		CardID:       req.CardID,
		UserID:       userID,
		Reason:       req.Reason,
		SubmissionID: req.SubmissionID,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ModerationStateResponse{State: st, Quarantined: st.IsQuarantined()}, nil
}

func (s *Server) GetModerationState(ctx context.Context, req *engagementv1.GetModerationStateRequest) (*engagementv1.ModerationStateResponse, error) {
	if s.svc.Moderation == nil {
		return nil, unavailable("GetModerationState")
	}
	if _, err := rbac.RequireUser(ctx); err != nil {
		return nil, err
	}
	st, err := s.svc.Moderation.State(ctx, req.CardID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ModerationStateResponse{State: st, Quarantined: st.IsQuarantined()}, nil
}

// GetReadiness recomputes the readiness score and registers the user with the poller.
func (s *Server) GetReadiness(ctx context.Context, req *engagementv1.GetReadinessRequest) (*engagementv1.ReadinessResponse, error) {
	if s.svc.Preboarding == nil {
		return nil, unavailable("GetReadiness")
	}
	userID, err := s.targetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	snap, err := s.svc.Preboarding.Readiness(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	if s.svc.Poller != nil {
		s.svc.Poller.Watch(userID)
	}
	return &engagementv1.ReadinessResponse{UserID: snap.UserID, Items: snap.Items, Score: snap.Score}, nil
}

// authorizeItem lets the item's owner through; anyone else needs the MANAGER role.
func (s *Server) authorizeItem(ctx context.Context, itemID string) error {
	caller, err := rbac.RequireUser(ctx)
	if err != nil {
		return err
	}
	it, err := s.svc.Preboarding.Item(ctx, itemID)
	if err != nil {
		return toStatus(err)
	}
	if it.UserID == caller {
		return nil
	}
	if s.svc.Journey == nil {
		return status.Error(codes.PermissionDenied, "manager role required")
	}
	_, err = rbac.RequireManager(ctx, s.svc.Journey)
	return err
}

func (s *Server) UpdateItemStatus(ctx context.Context, req *engagementv1.UpdateItemStatusRequest) (*engagementv1.ItemResponse, error) {
	if s.svc.Preboarding == nil {
		return nil, unavailable("UpdateItemStatus")
	}
	if err := s.authorizeItem(ctx, req.ItemID); err != nil {
		return nil, err
	}
	it, err := s.svc.Preboarding.UpdateStatus(ctx, req.ItemID, req.Status)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ItemResponse{Item: it}, nil
}

func (s *Server) EscalateItem(ctx context.Context, req *engagementv1.EscalateItemRequest) (*engagementv1.ItemResponse, error) {
	if s.svc.Preboarding == nil {
		return nil, unavailable("EscalateItem")
	}
	if err := s.authorizeItem(ctx, req.ItemID); err != nil {
		return nil, err
	}
	it, err := s.svc.Preboarding.Escalate(ctx, req.ItemID, req.EscalateTo)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ItemResponse{Item: it}, nil
}

// GenerateActionQueue returns the calling manager's prioritized action queue.
func (s *Server) GenerateActionQueue(ctx context.Context, _ *engagementv1.GenerateActionQueueRequest) (*engagementv1.ActionQueueResponse, error) {
	if s.svc.Team == nil || s.svc.Journey == nil {
		return nil, unavailable("GenerateActionQueue")
	}
	managerID, err := rbac.RequireManager(ctx, s.svc.Journey)
	if err != nil {
		return nil, err
	}
	items, err := s.svc.Team.GenerateActionQueue(ctx, managerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ActionQueueResponse{Items: items}, nil
}

func (s *Server) AcknowledgeAction(ctx context.Context, req *engagementv1.AcknowledgeActionRequest) (*engagementv1.ActionQueueResponse, error) {
	if s.svc.Team == nil || s.svc.Journey == nil {
		return nil, unavailable("AcknowledgeAction")
	}
	managerID, err := rbac.RequireManager(ctx, s.svc.Journey)
	if err != nil {
		return nil, err
	}
	items, err := s.svc.Team.AcknowledgeAction(ctx, managerID, req.ActionID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ActionQueueResponse{Items: items}, nil
}

func (s *Server) ApplyStaffingPlan(ctx context.Context, req *engagementv1.ApplyStaffingPlanRequest) (*engagementv1.ApplyStaffingPlanResponse, error) {
	if s.svc.Team == nil || s.svc.Journey == nil {
		return nil, unavailable("ApplyStaffingPlan")
	}
	managerID, err := rbac.RequireManager(ctx, s.svc.Journey)
	if err != nil {
		return nil, err
	}
	members, err := s.svc.Team.ApplyStaffingPlan(ctx, managerID, req.Assignments)
	if err != nil {
		return nil, toStatus(err)
	}
	return &engagementv1.ApplyStaffingPlanResponse{Members: members}, nil
}

// ListActivity returns the caller's activity log, newest first.
func (s *Server) ListActivity(ctx context.Context, req *engagementv1.ListActivityRequest) (*engagementv1.ListActivityResponse, error) {
	if s.svc.Activity == nil {
		return nil, unavailable("ListActivity")
	}
	userID, err := rbac.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	logs, err := s.svc.Activity.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]engagementv1.ActivityEntry, 0, len(logs))
	for _, l := range logs {
		out = append(out, engagementv1.ActivityEntry{
			ID:        l.ID,
			Action:    l.Action,
			Resource:  l.Resource,
			Metadata:  l.Metadata,
			CreatedAt: l.CreatedAt,
		})
	}
	return &engagementv1.ListActivityResponse{Entries: out}, nil
}
