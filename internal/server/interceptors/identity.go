package interceptors

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Metadata keys set by the gateway in front of the engagement service.
const (
	UserIDHeader    = "x-user-id"
	RequestIDHeader = "x-request-id"
)

// IdentityUnary returns a unary server interceptor that reads the caller's user id from the
// x-user-id metadata set by the authenticating gateway and stores it with a request id in context.
// publicMethods is the set of full method names that may be called without a user id
// (e.g. the health check). A missing x-request-id is replaced with a generated one.
func IdentityUnary(publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		userID := firstValue(ctx, UserIDHeader)
		if userID == "" && !publicMethods[info.FullMethod] {
			return nil, status.Error(codes.Unauthenticated, "missing caller identity")
		}
		requestID := firstValue(ctx, RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		return handler(WithIdentity(ctx, userID, requestID), req)
	}
}

// firstValue returns the first non-blank value of key in the incoming metadata, or "".
func firstValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(key) {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
