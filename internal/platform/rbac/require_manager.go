package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	profile "onboardflow/internal/profile/domain"
)

// ProfileGetter returns a user's stored profile. Used by RequireManager to resolve the caller role.
type ProfileGetter interface {
	Profile(ctx context.Context, key string) (*profile.UserProfile, error)
}

// RequireManager ensures the caller is authenticated and their profile has the MANAGER role.
// Returns the manager's user id on success; returns a gRPC error (Unauthenticated, Internal or
// PermissionDenied) on failure.
func RequireManager(ctx context.Context, getter ProfileGetter) (string, error) {
	userID, err := RequireUser(ctx)
	if err != nil {
		return "", err
	}
	p, err := getter.Profile(ctx, userID)
	if err != nil {
		return "", status.Error(codes.Internal, "failed to resolve profile")
	}
	if p == nil || p.Role != profile.RoleManager {
		return "", status.Error(codes.PermissionDenied, "manager role required")
	}
	return userID, nil
}
