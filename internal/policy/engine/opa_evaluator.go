package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"go.uber.org/zap"

	"onboardflow/internal/logging"
	"onboardflow/internal/team/domain"
)

const policyQuery = "data.onboardflow.burnout"

// DefaultPolicy mirrors the built-in burnout thresholds. A custom policy must live in package
// onboardflow.burnout and define flagged, priority and signals.
const DefaultPolicy = `package onboardflow.burnout

default flagged := false
default priority := ""

signals contains "burnoutScore" if input.member.burnout_score >= 60

signals contains "currentLoad" if input.member.current_load > 105

flagged if count(signals) > 0

high if input.member.burnout_score >= 75

high if input.member.current_load > 120

priority := "HIGH" if {
	flagged
	high
}

priority := "MEDIUM" if {
	flagged
	not high
}
`

// OPAEvaluator classifies burnout risk with a Rego policy. It satisfies actionqueue.Classifier.
type OPAEvaluator struct {
	query  rego.PreparedEvalQuery
	logger *zap.Logger
}

// LoadPolicy reads a Rego module from path. An empty path returns DefaultPolicy.
func LoadPolicy(path string) (string, error) {
	if path == "" {
		return DefaultPolicy, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read policy: %w", err)
	}
	return string(b), nil
}

// NewOPAEvaluator compiles module (DefaultPolicy when empty) and prepares the burnout query.
func NewOPAEvaluator(ctx context.Context, module string, logger *zap.Logger) (*OPAEvaluator, error) {
	if module == "" {
		module = DefaultPolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"burnout.rego": module})
	if err != nil {
		return nil, fmt.Errorf("compile policy: %w", err)
	}
	q, err := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare policy: %w", err)
	}
	return &OPAEvaluator{query: q, logger: logging.OrNop(logger)}, nil
}

// HealthCheck evaluates the policy against a fixed member and verifies it yields a verdict.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	_, err := e.evaluate(ctx, domain.Member{ID: "healthcheck", BurnoutScore: 90, CurrentLoad: 130})
	return err
}

// ClassifyBurnout evaluates the policy for m. Evaluation failures are logged and answered with
// the built-in thresholds, so the action queue never depends on the policy being healthy.
func (e *OPAEvaluator) ClassifyBurnout(ctx context.Context, m domain.Member) (domain.Classification, error) {
	c, err := e.evaluate(ctx, m)
	if err != nil {
		e.logger.Warn("policy: burnout evaluation failed, using defaults", zap.String("member_id", m.ID), zap.Error(err))
		return domain.Classify(m), nil
	}
	return c, nil
}

func buildInput(m domain.Member) map[string]interface{} {
	skills := make(map[string]interface{}, len(m.SkillScores))
	for k, v := range m.SkillScores {
		skills[k] = v
	}
	signals := make([]interface{}, 0, len(m.BurnoutSignals))
	for _, s := range m.BurnoutSignals {
		signals = append(signals, s)
	}
	return map[string]interface{}{
		"member": map[string]interface{}{
			"id":              m.ID,
			"burnout_score":   m.BurnoutScore,
			"current_load":    m.CurrentLoad,
			"skill_scores":    skills,
			"burnout_signals": signals,
		},
	}
}

func (e *OPAEvaluator) evaluate(ctx context.Context, m domain.Member) (domain.Classification, error) {
	rs, err := e.query.Eval(ctx, rego.EvalInput(buildInput(m)))
	if err != nil {
		return domain.Classification{}, fmt.Errorf("eval policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return domain.Classification{}, fmt.Errorf("policy query returned no result")
	}
	doc, ok := rs[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return domain.Classification{}, fmt.Errorf("policy result is %T, want object", rs[0].Expressions[0].Value)
	}
	flagged, ok := doc["flagged"].(bool)
	if !ok {
		return domain.Classification{}, fmt.Errorf("policy did not define a boolean flagged")
	}
	out := domain.Classification{Flagged: flagged}
	if !flagged {
		return out, nil
	}
	if p, ok := doc["priority"].(string); ok && p != "" {
		out.Priority = domain.Priority(p)
		if out.Priority.Rank() > domain.PriorityLow.Rank() {
			return domain.Classification{}, fmt.Errorf("policy returned unknown priority %q", p)
		}
	}
	if raw, ok := doc["signals"].([]interface{}); ok {
		for _, s := range raw {
			switch v := s.(type) {
			case string:
				out.Signals = append(out.Signals, v)
			case json.Number:
				out.Signals = append(out.Signals, v.String())
			}
		}
		slices.Sort(out.Signals)
	}
	return out, nil
}
