package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedEngineAsksQuestionsInOrder(t *testing.T) {
	ctx := context.Background()
	questions := []string{"Q1", "Q2", "Q3"}
	engine := NewScriptedEngine()

	greeting, err := engine.Initialize(ctx, questions, nil)
	require.NoError(t, err)
	assert.Equal(t, ScriptedGreeting, greeting)

	for i, want := range questions {
		got, err := engine.Respond(ctx, Turn{Text: "answer"})
		require.NoError(t, err)
		assert.Equal(t, want, got, "call %d", i)
	}

	for i := 0; i < 5; i++ {
		got, err := engine.Respond(ctx, Turn{Text: "more"})
		require.NoError(t, err)
		assert.Equal(t, ScriptedExhausted, got)
	}
}

func TestScriptedEngineSummaryCounts(t *testing.T) {
	ctx := context.Background()
	engine := NewScriptedEngine()

	_, err := engine.Initialize(ctx, []string{"Q1", "Q2"}, nil)
	require.NoError(t, err)
	_, err = engine.Respond(ctx, Turn{Text: DirectiveFirstQuestion, Directive: true})
	require.NoError(t, err)
	_, err = engine.Respond(ctx, Turn{Text: "answer1"})
	require.NoError(t, err)
	_, err = engine.Respond(ctx, Turn{Text: "answer2"})
	require.NoError(t, err)
	closing, err := engine.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScriptedValediction, closing)

	s := engine.Summary()
	assert.Equal(t, 2, s.RespondentMessages)
	// greeting, Q1, Q2, valediction; the exhaustion sentence is not recorded
	assert.Equal(t, 4, s.InterviewerMessages)
	assert.Equal(t, s.RespondentMessages+s.InterviewerMessages, s.TotalMessages)
	assert.Len(t, s.History, 7)
	assert.Equal(t, RoleDirective, s.History[1].Role)
	assert.Positive(t, s.ApproxTokens)
}

func TestScriptedEngineReinitializeResets(t *testing.T) {
	ctx := context.Background()
	engine := NewScriptedEngine()

	_, err := engine.Initialize(ctx, []string{"old"}, nil)
	require.NoError(t, err)
	_, err = engine.Respond(ctx, Turn{})
	require.NoError(t, err)

	_, err = engine.Initialize(ctx, []string{"new"}, nil)
	require.NoError(t, err)
	got, err := engine.Respond(ctx, Turn{})
	require.NoError(t, err)
	assert.Equal(t, "new", got)
	assert.Equal(t, 2, engine.Summary().TotalMessages)
}

func TestScriptedEngineCopiesQuestions(t *testing.T) {
	ctx := context.Background()
	questions := []string{"Q1"}
	engine := NewScriptedEngine()
	_, err := engine.Initialize(ctx, questions, nil)
	require.NoError(t, err)

	questions[0] = "mutated"
	got, err := engine.Respond(ctx, Turn{})
	require.NoError(t, err)
	assert.Equal(t, "Q1", got)
}
