package interceptors

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	auditdomain "onboardflow/internal/audit/domain"
)

// mockAuditRepoForInterceptor implements auditrepo.Repository for interceptor tests.
type mockAuditRepoForInterceptor struct {
	entries []*auditdomain.AuditLog
	err     error
}

func (m *mockAuditRepoForInterceptor) GetByID(ctx context.Context, id string) (*auditdomain.AuditLog, error) {
	return nil, nil
}

func (m *mockAuditRepoForInterceptor) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*auditdomain.AuditLog, error) {
	return nil, nil
}

func (m *mockAuditRepoForInterceptor) Create(ctx context.Context, a *auditdomain.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, a)
	return nil
}

func okHandler(ctx context.Context, req interface{}) (interface{}, error) {
	return "success", nil
}

func TestAuditUnary_SkipMethod(t *testing.T) {
	repo := &mockAuditRepoForInterceptor{}
	interceptor := AuditUnary(repo, map[string]bool{"/grpc.health.v1.Health/Check": true}, nil)
	ctx := WithIdentity(context.Background(), "alice", "req-1")
	if _, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, okHandler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if len(repo.entries) != 0 {
		t.Errorf("audit entries = %d, want 0", len(repo.entries))
	}
}

func TestAuditUnary_RecordsCall(t *testing.T) {
	repo := &mockAuditRepoForInterceptor{}
	interceptor := AuditUnary(repo, nil, nil)
	ctx := WithIdentity(context.Background(), "alice", "req-1")
	ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("x-forwarded-for", "10.0.0.1, 10.0.0.2"))

	resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/onboardflow.v1.EngagementService/CompleteDay"}, okHandler)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if resp != "success" {
		t.Errorf("response = %v, want success", resp)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.UserID != "alice" || e.Action != "complete_day" || e.Resource != "onboarding" || e.IP != "10.0.0.1" {
		t.Errorf("entry = %+v", e)
	}
	if !strings.Contains(e.Metadata, `"request_id":"req-1"`) || !strings.Contains(e.Metadata, `"code":"OK"`) {
		t.Errorf("metadata = %s", e.Metadata)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Error("entry should have id and timestamp")
	}
}

func TestAuditUnary_RecordsFailedCallCode(t *testing.T) {
	repo := &mockAuditRepoForInterceptor{}
	interceptor := AuditUnary(repo, nil, nil)
	ctx := WithIdentity(context.Background(), "alice", "req-1")
	failing := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.FailedPrecondition, "day is locked")
	}
	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/onboardflow.v1.EngagementService/CompleteDay"}, failing)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("code = %v, want FailedPrecondition", status.Code(err))
	}
	if len(repo.entries) != 1 || !strings.Contains(repo.entries[0].Metadata, `"code":"FailedPrecondition"`) {
		t.Errorf("entries = %+v, want one entry with the failure code", repo.entries)
	}
}

func TestAuditUnary_NoUser(t *testing.T) {
	repo := &mockAuditRepoForInterceptor{}
	interceptor := AuditUnary(repo, nil, nil)
	if _, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x.v1.S/M"}, okHandler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if len(repo.entries) != 0 {
		t.Errorf("audit entries = %d, want 0", len(repo.entries))
	}
}

func TestAuditUnary_RepoErrorDoesNotFailRPC(t *testing.T) {
	repo := &mockAuditRepoForInterceptor{err: errors.New("db down")}
	interceptor := AuditUnary(repo, nil, nil)
	ctx := WithIdentity(context.Background(), "alice", "req-1")
	resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x.v1.S/M"}, okHandler)
	if err != nil || resp != "success" {
		t.Errorf("resp, err = %v, %v; want success, nil", resp, err)
	}
}

func TestAuditUnary_NilRepo(t *testing.T) {
	interceptor := AuditUnary(nil, nil, nil)
	ctx := WithIdentity(context.Background(), "alice", "req-1")
	if _, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x.v1.S/M"}, okHandler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
}

func TestClientIP(t *testing.T) {
	testCases := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"forwarded for", metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-forwarded-for", "1.2.3.4")), "1.2.3.4"},
		{"real ip", metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", " 5.6.7.8 ")), "5.6.7.8"},
		{"peer", peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("9.9.9.9"), Port: 5000}}), "9.9.9.9"},
		{"unknown", context.Background(), "unknown"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClientIP(tc.ctx); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}
