// Package policy evaluates dialogue engine admission rules with OPA.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
)

// Input is the document a candidate engine is evaluated against.
type Input struct {
	Engine          string   `json:"engine"`
	SessionID       string   `json:"session_id"`
	Title           string   `json:"title"`
	DisabledEngines []string `json:"disabled_engines"`
}

// Decision is the outcome of an admission check.
type Decision struct {
	Allow  bool
	Reason string
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.engine_admission.decision"),
		rego.Module("engine_admission.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// NewEngineFromFile loads the policy from path, or the default policy when path is empty.
func NewEngineFromFile(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return NewEngine(ctx, string(content))
}

// Admit evaluates whether the candidate engine may serve the session.
// The policy must produce an object {"allow": bool, "reason": string}.
func (e *Engine) Admit(ctx context.Context, input Input) (Decision, error) {
	if input.DisabledEngines == nil {
		input.DisabledEngines = []string{}
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Decision{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Decision{}, fmt.Errorf("policy produced no decision")
	}

	obj, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Decision{}, fmt.Errorf("unexpected decision type %T", results[0].Expressions[0].Value)
	}
	allow, _ := obj["allow"].(bool)
	reason, _ := obj["reason"].(string)
	return Decision{Allow: allow, Reason: reason}, nil
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package engine_admission

import rego.v1

default decision := {"allow": true, "reason": "default"}

decision := {"allow": false, "reason": "engine disabled by configuration"} if {
	input.engine in input.disabled_engines
}
`
