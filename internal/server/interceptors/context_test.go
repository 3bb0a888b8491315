package interceptors

import (
	"context"
	"testing"
)

func TestWithIdentity_SetsAllValues(t *testing.T) {
	ctx := WithIdentity(context.Background(), "user-1", "req-1")

	userID, ok := GetUserID(ctx)
	if !ok || userID != "user-1" {
		t.Errorf("GetUserID = %q, %v; want %q, true", userID, ok, "user-1")
	}
	requestID, ok := GetRequestID(ctx)
	if !ok || requestID != "req-1" {
		t.Errorf("GetRequestID = %q, %v; want %q, true", requestID, ok, "req-1")
	}
}

func TestGetters_ReturnFalseWhenNotSet(t *testing.T) {
	ctx := context.Background()
	if v, ok := GetUserID(ctx); ok || v != "" {
		t.Errorf("GetUserID = %q, %v; want empty, false", v, ok)
	}
	if v, ok := GetRequestID(ctx); ok || v != "" {
		t.Errorf("GetRequestID = %q, %v; want empty, false", v, ok)
	}
}

func TestWithIdentity_Overwrites(t *testing.T) {
	ctx := WithIdentity(context.Background(), "user-1", "req-1")
	ctx = WithIdentity(ctx, "user-2", "req-2")
	if v, _ := GetUserID(ctx); v != "user-2" {
		t.Errorf("user_id = %q, want user-2", v)
	}
	if v, _ := GetRequestID(ctx); v != "req-2" {
		t.Errorf("request_id = %q, want req-2", v)
	}
}

func TestWithIdentity_EmptyValuesAreSet(t *testing.T) {
	ctx := WithIdentity(context.Background(), "", "")
	if v, ok := GetUserID(ctx); !ok || v != "" {
		t.Errorf("GetUserID = %q, %v; want empty, true", v, ok)
	}
}
