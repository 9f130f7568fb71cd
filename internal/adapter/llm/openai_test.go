package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatServer struct {
	mu       sync.Mutex
	requests []map[string]any
	fail     bool
	calls    int
}

func (f *fakeChatServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}

		f.mu.Lock()
		f.calls++
		n := f.calls
		f.requests = append(f.requests, body)
		fail := f.fail
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"error":{"message":"upstream overloaded","type":"server_error"}}`)
			return
		}
		fmt.Fprintf(w, `{"id":"c%d","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"reply %d"},"finish_reason":"stop"}]}`, n, n)
	}
}

func (f *fakeChatServer) messages(i int) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]["messages"].([]any)
}

func newTestOpenAIEngine(t *testing.T, fake *fakeChatServer) *OpenAIEngine {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	engine, err := NewOpenAIEngine(OpenAIOptions{
		APIKey:      "test-key",
		BaseURL:     server.URL + "/v1",
		Temperature: 0.7,
		MaxTokens:   300,
	})
	require.NoError(t, err)
	return engine
}

func TestNewOpenAIEngineRequiresKey(t *testing.T) {
	_, err := NewOpenAIEngine(OpenAIOptions{})
	require.Error(t, err)
}

func TestOpenAIEngineConversation(t *testing.T) {
	ctx := context.Background()
	fake := &fakeChatServer{}
	engine := newTestOpenAIEngine(t, fake)

	greeting, err := engine.Initialize(ctx, []string{"Q1"}, PromptContext{{Key: "title", Value: "SRE"}})
	require.NoError(t, err)
	assert.Equal(t, "reply 1", greeting)

	first := fake.messages(0)
	require.Len(t, first, 2)
	assert.Equal(t, "system", first[0].(map[string]any)["role"])
	assert.Equal(t, DirectiveGreeting, first[1].(map[string]any)["content"])

	_, err = engine.Respond(ctx, Turn{Text: DirectiveFirstQuestion, Directive: true})
	require.NoError(t, err)
	reply, err := engine.Respond(ctx, Turn{Text: "my answer"})
	require.NoError(t, err)
	assert.Equal(t, "reply 3", reply)

	// system, directive, assistant, directive, assistant, user
	third := fake.messages(2)
	require.Len(t, third, 6)
	assert.Equal(t, "assistant", third[2].(map[string]any)["role"])
	assert.Equal(t, "my answer", third[5].(map[string]any)["content"])

	_, err = engine.End(ctx)
	require.NoError(t, err)

	s := engine.Summary()
	assert.Equal(t, 1, s.RespondentMessages)
	assert.Equal(t, 4, s.InterviewerMessages)
	assert.Equal(t, s.RespondentMessages+s.InterviewerMessages, s.TotalMessages)
	assert.Equal(t, RoleSystem, s.History[0].Role)
}

func TestOpenAIEngineFailureIsEngineError(t *testing.T) {
	ctx := context.Background()
	fake := &fakeChatServer{}
	engine := newTestOpenAIEngine(t, fake)

	_, err := engine.Initialize(ctx, []string{"Q1"}, nil)
	require.NoError(t, err)
	before := engine.Summary()

	fake.mu.Lock()
	fake.fail = true
	fake.mu.Unlock()

	_, err = engine.Respond(ctx, Turn{Text: "lost?"})
	require.Error(t, err)
	var engineErr *domain.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, EngineOpenAI, engineErr.Provider)
	assert.Contains(t, err.Error(), "AI service error")

	assert.Equal(t, before.History, engine.Summary().History)
}

func TestOpenAIEngineEmptyCompletionIsEngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",`+
			`"choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"content_filter"}]}`)
	}))
	t.Cleanup(server.Close)

	engine, err := NewOpenAIEngine(OpenAIOptions{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	reply, err := engine.Initialize(context.Background(), []string{"Q1"}, nil)
	assert.Empty(t, reply)
	var engineErr *domain.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, EngineOpenAI, engineErr.Provider)
	assert.Contains(t, err.Error(), "content_filter")
	assert.Equal(t, 0, engine.Summary().TotalMessages)
}
