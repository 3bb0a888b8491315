package engagementv1

import (
	"testing"

	"onboardflow/internal/audit"
)

func TestEngagementServiceDesc_EveryMethodHasAnAuditResource(t *testing.T) {
	if len(EngagementServiceDesc.Methods) != 20 {
		t.Fatalf("descriptor has %d methods, want 20", len(EngagementServiceDesc.Methods))
	}
	seen := make(map[string]bool)
	for _, m := range EngagementServiceDesc.Methods {
		if seen[m.MethodName] {
			t.Errorf("method %s registered twice", m.MethodName)
		}
		seen[m.MethodName] = true
		if r := audit.ParseFullMethod(FullMethod(m.MethodName)).Resource; r == "engagement" || r == "unknown" {
			t.Errorf("%s maps to resource %q", m.MethodName, r)
		}
	}
}

func TestJSONCodec_EmptyPayload(t *testing.T) {
	var req ListDaysRequest
	if err := (jsonCodec{}).Unmarshal(nil, &req); err != nil {
		t.Errorf("Unmarshal(nil) = %v", err)
	}
	b, err := (jsonCodec{}).Marshal(&CompleteDayRequest{Day: 3})
	if err != nil || string(b) != `{"day":3}` {
		t.Errorf("Marshal = %s, %v", b, err)
	}
}
