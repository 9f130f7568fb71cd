package llm

import (
	"context"
	"fmt"

	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/priyanshupaikra/Inter-AI/internal/policy"
	"github.com/rs/zerolog/log"
)

// Candidate is one entry of the engine selection order.
type Candidate struct {
	Name string
	New  func() (DialogueEngine, error)
}

// Admitter decides whether a candidate engine may serve a session.
type Admitter interface {
	Admit(ctx context.Context, input policy.Input) (policy.Decision, error)
}

// Attempt outcomes recorded during selection.
const (
	OutcomeSelected        = "selected"
	OutcomeRejected        = "rejected"
	OutcomeConstructFailed = "construct_failed"
)

// Attempt records what happened to one candidate during selection.
type Attempt struct {
	Engine  string `json:"engine"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

// Selection is the result of a successful engine selection.
type Selection struct {
	Engine   DialogueEngine
	Attempts []Attempt
}

// SelectRequest carries the session facts visible to the admission policy.
type SelectRequest struct {
	SessionID string
	Title     string
}

// Factory selects a dialogue engine from an ordered candidate list.
type Factory struct {
	candidates []Candidate
	admitter   Admitter
	disabled   []string
}

// NewFactory creates a factory. admitter may be nil, in which case every candidate is admitted.
func NewFactory(candidates []Candidate, admitter Admitter, disabled []string) *Factory {
	return &Factory{candidates: candidates, admitter: admitter, disabled: disabled}
}

// Select walks the candidates in order and returns the first engine that is admitted and
// constructs successfully. The scripted engine bypasses the admission policy.
func (f *Factory) Select(ctx context.Context, req SelectRequest) (*Selection, error) {
	sel := &Selection{}
	for _, c := range f.candidates {
		if c.Name != EngineScripted && f.admitter != nil {
			decision, err := f.admitter.Admit(ctx, policy.Input{
				Engine:          c.Name,
				SessionID:       req.SessionID,
				Title:           req.Title,
				DisabledEngines: f.disabled,
			})
			if err != nil {
				log.Warn().Err(err).Str("engine", c.Name).Str("session_id", req.SessionID).Msg("engine admission failed")
				sel.Attempts = append(sel.Attempts, Attempt{Engine: c.Name, Outcome: OutcomeRejected, Reason: err.Error()})
				continue
			}
			if !decision.Allow {
				log.Info().Str("engine", c.Name).Str("reason", decision.Reason).Msg("engine rejected by policy")
				sel.Attempts = append(sel.Attempts, Attempt{Engine: c.Name, Outcome: OutcomeRejected, Reason: decision.Reason})
				continue
			}
		}

		engine, err := c.New()
		if err != nil {
			log.Warn().Err(err).Str("engine", c.Name).Msg("engine construction failed, trying next candidate")
			sel.Attempts = append(sel.Attempts, Attempt{Engine: c.Name, Outcome: OutcomeConstructFailed, Reason: err.Error()})
			continue
		}

		sel.Engine = engine
		sel.Attempts = append(sel.Attempts, Attempt{Engine: c.Name, Outcome: OutcomeSelected})
		return sel, nil
	}
	return sel, fmt.Errorf("tried %d candidates: %w", len(f.candidates), domain.ErrEngineUnavailable)
}

// ScriptedCandidate returns the always-available fallback candidate.
func ScriptedCandidate() Candidate {
	return Candidate{Name: EngineScripted, New: func() (DialogueEngine, error) { return NewScriptedEngine(), nil }}
}

// DefaultOrder is the selection order used when none is configured.
var DefaultOrder = []string{EngineGemini, EngineOpenAI, EngineScripted}

// NewCandidates builds the candidate list for the given order. Unknown names are skipped and
// the scripted engine is appended when the order does not mention it.
func NewCandidates(order []string, gem GeminiOptions, oai OpenAIOptions) []Candidate {
	if len(order) == 0 {
		order = DefaultOrder
	}
	var out []Candidate
	hasScripted := false
	for _, name := range order {
		switch name {
		case EngineGemini:
			out = append(out, Candidate{Name: name, New: func() (DialogueEngine, error) {
				e, err := NewGeminiEngine(gem)
				if err != nil {
					return nil, err
				}
				return e, nil
			}})
		case EngineOpenAI:
			out = append(out, Candidate{Name: name, New: func() (DialogueEngine, error) {
				e, err := NewOpenAIEngine(oai)
				if err != nil {
					return nil, err
				}
				return e, nil
			}})
		case EngineScripted:
			hasScripted = true
			out = append(out, ScriptedCandidate())
		default:
			log.Warn().Str("engine", name).Msg("unknown engine in selection order, skipping")
		}
	}
	if !hasScripted {
		out = append(out, ScriptedCandidate())
	}
	return out
}
