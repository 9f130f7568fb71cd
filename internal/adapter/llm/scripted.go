package llm

import (
	"context"
	"sync"
)

// Canned utterances of the scripted engine.
const (
	ScriptedGreeting    = "Hello! Welcome to this interview. I'm excited to learn more about you. Let's begin!"
	ScriptedExhausted   = "Thank you for your responses! That concludes our interview."
	ScriptedValediction = "Thank you for taking the time to interview with us today. We appreciate your interest and will be in touch soon. Have a great day!"
)

// ScriptedEngine replays a fixed question list without any external dependency.
type ScriptedEngine struct {
	mu        sync.Mutex
	questions []string
	next      int
	history   []Message
}

// NewScriptedEngine creates a new scripted engine.
func NewScriptedEngine() *ScriptedEngine {
	return &ScriptedEngine{}
}

// Name returns the engine name.
func (e *ScriptedEngine) Name() string { return EngineScripted }

// Initialize loads the questions and returns the canned greeting.
func (e *ScriptedEngine) Initialize(ctx context.Context, questions []string, pc PromptContext) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.questions = append([]string(nil), questions...)
	e.next = 0
	e.history = []Message{{Role: RoleInterviewer, Content: ScriptedGreeting}}
	return ScriptedGreeting, nil
}

// Respond returns the next unused question, or the exhaustion sentence once every question
// has been asked. The exhaustion sentence is not added to the history.
func (e *ScriptedEngine) Respond(ctx context.Context, turn Turn) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if turn.Text != "" {
		role := RoleRespondent
		if turn.Directive {
			role = RoleDirective
		}
		e.history = append(e.history, Message{Role: role, Content: turn.Text})
	}

	if e.next >= len(e.questions) {
		return ScriptedExhausted, nil
	}
	q := e.questions[e.next]
	e.next++
	e.history = append(e.history, Message{Role: RoleInterviewer, Content: q})
	return q, nil
}

// End returns the canned valediction.
func (e *ScriptedEngine) End(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = append(e.history, Message{Role: RoleInterviewer, Content: ScriptedValediction})
	return ScriptedValediction, nil
}

// Summary returns a snapshot of the conversation.
func (e *ScriptedEngine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return summarize(e.history)
}
