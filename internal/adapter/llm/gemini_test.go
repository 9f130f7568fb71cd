package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/priyanshupaikra/Inter-AI/internal/adapter/gemini"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiEngineSendsOnlyNewMessages(t *testing.T) {
	var mu sync.Mutex
	var sent []gemini.GenerateContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gemini.GenerateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		sent = append(sent, req)
		n := len(sent)
		mu.Unlock()
		fmt.Fprintf(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"gem %d"}]}}]}`, n)
	}))
	defer server.Close()

	engine, err := NewGeminiEngine(GeminiOptions{APIKey: "k", BaseURL: server.URL, Temperature: 0.7, MaxTokens: 300})
	require.NoError(t, err)

	ctx := context.Background()
	greeting, err := engine.Initialize(ctx, []string{"Q1", "Q2"}, PromptContext{{Key: "title", Value: "QA"}})
	require.NoError(t, err)
	assert.Equal(t, "gem 1", greeting)

	_, err = engine.Respond(ctx, Turn{Text: DirectiveFirstQuestion, Directive: true})
	require.NoError(t, err)
	_, err = engine.Respond(ctx, Turn{})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 3)

	firstText := sent[0].Contents[0].Parts[0].Text
	assert.True(t, strings.HasPrefix(firstText, "You are a professional"))
	assert.True(t, strings.HasSuffix(firstText, "\n\n"+DirectiveGreeting))
	require.NotNil(t, sent[0].GenerationConfig)
	assert.Equal(t, 300, *sent[0].GenerationConfig.MaxOutputTokens)

	// the chat session replays provider-side history; only the last content is new
	last := sent[2].Contents
	require.Len(t, last, 5)
	assert.Equal(t, DirectiveNextQuestion, last[4].Parts[0].Text)
	assert.Equal(t, DirectiveFirstQuestion, last[2].Parts[0].Text)

	s := engine.Summary()
	assert.Equal(t, 0, s.RespondentMessages)
	assert.Equal(t, 3, s.InterviewerMessages)
	assert.Equal(t, 3, s.TotalMessages)
}

func TestGeminiEngineFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	}))
	defer server.Close()

	engine, err := NewGeminiEngine(GeminiOptions{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = engine.Initialize(context.Background(), []string{"Q1"}, nil)
	var engineErr *domain.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, EngineGemini, engineErr.Provider)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Equal(t, 0, engine.Summary().TotalMessages)
}

func TestGeminiEngineBlockedReplyIsEngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"SAFETY"}]}`)
	}))
	defer server.Close()

	engine, err := NewGeminiEngine(GeminiOptions{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	reply, err := engine.Initialize(context.Background(), []string{"Q1"}, nil)
	assert.Empty(t, reply)
	var engineErr *domain.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, EngineGemini, engineErr.Provider)
	assert.Contains(t, err.Error(), "SAFETY")
	assert.Equal(t, 0, engine.Summary().TotalMessages)
}

func TestGeminiEngineRespondBeforeInitialize(t *testing.T) {
	engine, err := NewGeminiEngine(GeminiOptions{APIKey: "k"})
	require.NoError(t, err)

	_, err = engine.Respond(context.Background(), Turn{Text: "hi"})
	var engineErr *domain.EngineError
	require.True(t, errors.As(err, &engineErr))
}
