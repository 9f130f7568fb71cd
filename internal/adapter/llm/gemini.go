package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/priyanshupaikra/Inter-AI/internal/adapter/gemini"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/rs/zerolog/log"
)

// GeminiOptions configures the Gemini-backed engine.
type GeminiOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// GeminiEngine keeps the provider-side context in a chat session and only sends the newest
// message on each turn.
type GeminiEngine struct {
	client *gemini.Client
	opts   GeminiOptions

	mu      sync.Mutex
	chat    *gemini.ChatSession
	system  string
	history []Message
}

// NewGeminiEngine creates a new Gemini engine. It fails when no API key is configured.
func NewGeminiEngine(opts GeminiOptions) (*GeminiEngine, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	if opts.Model == "" {
		opts.Model = "gemini-1.5-flash"
	}
	return &GeminiEngine{
		client: gemini.NewClient(opts.BaseURL, opts.APIKey, 0),
		opts:   opts,
	}, nil
}

// Name returns the engine name.
func (e *GeminiEngine) Name() string { return EngineGemini }

// Initialize starts a fresh chat and asks for a greeting.
func (e *GeminiEngine) Initialize(ctx context.Context, questions []string, pc PromptContext) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	config := &gemini.GenerationConfig{}
	if e.opts.Temperature > 0 {
		t := e.opts.Temperature
		config.Temperature = &t
	}
	if e.opts.MaxTokens > 0 {
		n := e.opts.MaxTokens
		config.MaxOutputTokens = &n
	}
	e.chat = e.client.StartChat(e.opts.Model, config)
	e.system = BuildSystemPrompt(questions, pc)
	e.history = []Message{{Role: RoleSystem, Content: e.system}}

	return e.send(ctx, Message{Role: RoleDirective, Content: DirectiveGreeting})
}

// Respond forwards the turn. Without a message the model is asked for the next question.
func (e *GeminiEngine) Respond(ctx context.Context, turn Turn) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chat == nil {
		return "", &domain.EngineError{Provider: EngineGemini, Err: errors.New("interview not initialized")}
	}
	msg := Message{Role: RoleRespondent, Content: turn.Text}
	switch {
	case turn.Text == "":
		msg = Message{Role: RoleDirective, Content: DirectiveNextQuestion}
	case turn.Directive:
		msg.Role = RoleDirective
	}
	return e.send(ctx, msg)
}

// End sends the closing directive.
func (e *GeminiEngine) End(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chat == nil {
		return "", &domain.EngineError{Provider: EngineGemini, Err: errors.New("interview not initialized")}
	}
	return e.send(ctx, Message{Role: RoleDirective, Content: DirectiveClose})
}

// Summary returns a snapshot of the conversation.
func (e *GeminiEngine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return summarize(e.history)
}

// send delivers msg to the chat session. The system prompt is prepended to the first message
// of a chat. Callers must hold e.mu.
func (e *GeminiEngine) send(ctx context.Context, msg Message) (string, error) {
	text := msg.Content
	if len(e.chat.History()) == 0 {
		text = e.system + "\n\n" + msg.Content
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	reply, err := e.chat.SendMessage(ctx, text)
	if err != nil {
		log.Error().Err(err).Str("engine", EngineGemini).Msg("generate content failed")
		return "", &domain.EngineError{Provider: EngineGemini, Err: err}
	}

	e.history = append(e.history, msg, Message{Role: RoleInterviewer, Content: reply})
	return reply, nil
}
