package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"onboardflow/internal/server/interceptors"
)

// RequireUser ensures the caller carries a user id. Returns the user id on success and an
// Unauthenticated gRPC error otherwise.
func RequireUser(ctx context.Context) (string, error) {
	userID, ok := interceptors.GetUserID(ctx)
	if !ok || userID == "" {
		return "", status.Error(codes.Unauthenticated, "user context required")
	}
	return userID, nil
}
