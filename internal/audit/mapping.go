package audit

import "strings"

// ActionResource holds action and resource derived from a gRPC full method name.
type ActionResource struct {
	Action   string
	Resource string
}

// Engagement service methods whose resource is not derivable from the method name alone.
var methodResources = map[string]string{
	"CompleteDay":         "onboarding",
	"Graduate":            "onboarding",
	"AdvancePhase":        "onboarding",
	"GoToPhase":           "onboarding",
	"RecordSignoff":       "onboarding",
	"SubmitFeedback":      "onboarding",
	"ListDays":            "onboarding",
	"SelectDailyCards":    "content",
	"ExplainCard":         "content",
	"SubmitFlag":          "card",
	"GetModerationState":  "card",
	"GetReadiness":        "preboarding",
	"UpdateItemStatus":    "preboarding",
	"EscalateItem":        "preboarding",
	"GenerateActionQueue": "team",
	"AcknowledgeAction":   "team",
	"ApplyStaffingPlan":   "team",
	"ListActivity":        "activity",
	"GetProfile":          "profile",
	"EnrollProfile":       "profile",
}

// ParseFullMethod returns action and resource for a gRPC full method
// (e.g. /onboardflow.v1.EngagementService/CompleteDay -> complete_day on onboarding).
// Action is the snake_case method name. Resource comes from the engagement method table, or
// from the service name (HealthService -> health) for other services.
func ParseFullMethod(fullMethod string) ActionResource {
	// fullMethod format: /package.v1.ServiceName/MethodName
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	method := fullMethod[slash+1:]
	action := toSnake(method)
	if r, ok := methodResources[method]; ok {
		return ActionResource{Action: action, Resource: r}
	}
	beforeSlash := fullMethod[:slash]
	dot := strings.LastIndex(beforeSlash, ".")
	if dot < 0 {
		return ActionResource{Action: action, Resource: "unknown"}
	}
	return ActionResource{Action: action, Resource: serviceToResource(beforeSlash[dot+1:])}
}

func serviceToResource(serviceName string) string {
	s := strings.TrimSuffix(serviceName, "Service")
	if s == "" {
		return "unknown"
	}
	return strings.ToLower(s[0:1]) + s[1:]
}

func toSnake(method string) string {
	if method == "" {
		return "unknown"
	}
	var b strings.Builder
	for i, r := range method {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
