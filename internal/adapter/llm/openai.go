package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

// OpenAIOptions configures the OpenAI-backed engine.
type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// OpenAIEngine forwards the full accumulated history to the chat completions API on every turn.
type OpenAIEngine struct {
	client  *go_openai.Client
	opts    OpenAIOptions
	mu      sync.Mutex
	history []Message
}

// NewOpenAIEngine creates a new OpenAI engine. It fails when no API key is configured.
func NewOpenAIEngine(opts OpenAIOptions) (*OpenAIEngine, error) {
	if opts.APIKey == "" {
		return nil, errors.New("openai api key is not configured")
	}
	if opts.Model == "" {
		opts.Model = go_openai.GPT4oMini
	}
	config := go_openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	return &OpenAIEngine{
		client: go_openai.NewClientWithConfig(config),
		opts:   opts,
	}, nil
}

// Name returns the engine name.
func (e *OpenAIEngine) Name() string { return EngineOpenAI }

// Initialize installs the system prompt and asks the model for a greeting.
func (e *OpenAIEngine) Initialize(ctx context.Context, questions []string, pc PromptContext) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = []Message{{Role: RoleSystem, Content: BuildSystemPrompt(questions, pc)}}
	return e.exchange(ctx, &Message{Role: RoleDirective, Content: DirectiveGreeting})
}

// Respond appends the turn (if any) and returns the model's next utterance.
func (e *OpenAIEngine) Respond(ctx context.Context, turn Turn) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var msg *Message
	if turn.Text != "" {
		msg = &Message{Role: RoleRespondent, Content: turn.Text}
		if turn.Directive {
			msg.Role = RoleDirective
		}
	}
	return e.exchange(ctx, msg)
}

// End sends the closing directive.
func (e *OpenAIEngine) End(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.exchange(ctx, &Message{Role: RoleDirective, Content: DirectiveClose})
}

// Summary returns a snapshot of the conversation.
func (e *OpenAIEngine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return summarize(e.history)
}

// exchange performs one completion call. The history is only extended when the call succeeds.
// Callers must hold e.mu.
func (e *OpenAIEngine) exchange(ctx context.Context, msg *Message) (string, error) {
	pending := e.history
	if msg != nil {
		pending = append(pending[:len(pending):len(pending)], *msg)
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	resp, err := e.client.CreateChatCompletion(ctx, go_openai.ChatCompletionRequest{
		Model:       e.opts.Model,
		Messages:    toOpenAIMessages(pending),
		Temperature: float32(e.opts.Temperature),
		MaxTokens:   e.opts.MaxTokens,
	})
	if err != nil {
		log.Error().Err(err).Str("engine", EngineOpenAI).Msg("chat completion failed")
		return "", &domain.EngineError{Provider: EngineOpenAI, Err: err}
	}
	if len(resp.Choices) == 0 {
		err := errors.New("empty completion")
		log.Error().Err(err).Str("engine", EngineOpenAI).Msg("chat completion failed")
		return "", &domain.EngineError{Provider: EngineOpenAI, Err: err}
	}

	reply := resp.Choices[0].Message.Content
	if strings.TrimSpace(reply) == "" {
		err := fmt.Errorf("empty completion (finish reason: %s)", resp.Choices[0].FinishReason)
		log.Error().Err(err).Str("engine", EngineOpenAI).Msg("chat completion failed")
		return "", &domain.EngineError{Provider: EngineOpenAI, Err: err}
	}
	e.history = append(pending, Message{Role: RoleInterviewer, Content: reply})
	return reply, nil
}

func toOpenAIMessages(history []Message) []go_openai.ChatCompletionMessage {
	msgs := make([]go_openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		role := go_openai.ChatMessageRoleUser
		switch m.Role {
		case RoleSystem:
			role = go_openai.ChatMessageRoleSystem
		case RoleInterviewer:
			role = go_openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, go_openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return msgs
}
