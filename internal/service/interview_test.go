package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/priyanshupaikra/Inter-AI/internal/adapter/llm"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/priyanshupaikra/Inter-AI/internal/registry"
	"github.com/priyanshupaikra/Inter-AI/internal/repository"
	"github.com/priyanshupaikra/Inter-AI/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachable(name string) llm.Candidate {
	return llm.Candidate{Name: name, New: func() (llm.DialogueEngine, error) {
		return nil, fmt.Errorf("%s: connection refused", name)
	}}
}

type testEnv struct {
	svc   *Service
	store *repository.SQLiteStore
	reg   *registry.Registry
}

func newTestEnv(t *testing.T, candidates []llm.Candidate, opts ...Option) *testEnv {
	t.Helper()
	if candidates == nil {
		candidates = []llm.Candidate{unreachable(llm.EngineGemini), unreachable(llm.EngineOpenAI), llm.ScriptedCandidate()}
	}
	store := helpers.NewTestSQLiteStore(t)
	reg := registry.New()
	svc := New(store, llm.NewFactory(candidates, nil, nil), reg, opts...)
	return &testEnv{svc: svc, store: store, reg: reg}
}

func (e *testEnv) seedSession(t *testing.T, questions ...string) string {
	t.Helper()
	ctx := context.Background()
	st, err := e.svc.CreateStudent(ctx, domain.CreateStudentRequest{Name: "Grace"})
	require.NoError(t, err)
	session, err := e.svc.CreateSession(ctx, domain.CreateSessionRequest{StudentID: st.StudentID, Title: "Backend Engineer", DurationMinutes: 30})
	require.NoError(t, err)
	if len(questions) > 0 {
		in := make([]domain.QuestionInput, len(questions))
		for i, q := range questions {
			in[i] = domain.QuestionInput{Text: q}
		}
		_, err = e.svc.AddQuestions(ctx, session.SessionID, domain.AddQuestionsRequest{Questions: in})
		require.NoError(t, err)
	}
	return session.SessionID
}

func (e *testEnv) transcript(t *testing.T, sessionID string) []domain.TranscriptEntry {
	t.Helper()
	entries, err := e.svc.ListTranscript(context.Background(), sessionID)
	require.NoError(t, err)
	return entries
}

func TestInterviewScriptedScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	sid := env.seedSession(t, "Q1", "Q2")

	initRes, err := env.svc.Initialize(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, llm.ScriptedGreeting, initRes.OpeningMessage)
	assert.Equal(t, "Q1", initRes.FirstQuestion)
	assert.Equal(t, llm.EngineScripted, initRes.Engine)

	entries := env.transcript(t, sid)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.SpeakerInterviewer, entries[0].Speaker)
	assert.Nil(t, entries[0].QuestionID)
	assert.Equal(t, domain.SpeakerInterviewer, entries[1].Speaker)
	require.NotNil(t, entries[1].QuestionID)

	questions, err := env.svc.ListQuestions(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, questions[0].QuestionID, *entries[1].QuestionID)

	r1, err := env.svc.Respond(ctx, sid, "answer1")
	require.NoError(t, err)
	assert.Equal(t, "Q2", r1.AIResponse)
	assert.Len(t, env.transcript(t, sid), 4)

	r2, err := env.svc.Respond(ctx, sid, "answer2")
	require.NoError(t, err)
	assert.Equal(t, llm.ScriptedExhausted, r2.AIResponse)
	assert.Len(t, env.transcript(t, sid), 6)

	endRes, err := env.svc.End(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, llm.ScriptedValediction, endRes.ClosingMessage)
	assert.Equal(t, 2, endRes.Summary.RespondentMessages)
	assert.Equal(t, endRes.Summary.RespondentMessages+endRes.Summary.InterviewerMessages, endRes.Summary.TotalMessages)

	entries = env.transcript(t, sid)
	require.Len(t, entries, 7)
	assert.Equal(t, llm.ScriptedValediction, entries[6].Message)
	assert.Equal(t, 0, env.reg.Len())

	_, err = env.svc.Respond(ctx, sid, "late")
	require.ErrorIs(t, err, domain.ErrEngineNotFound)
	assert.Len(t, env.transcript(t, sid), 7)
}

func TestRespondWithoutInitialize(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	sid := env.seedSession(t, "Q1")

	_, err := env.svc.Respond(ctx, sid, "hello?")
	require.ErrorIs(t, err, domain.ErrEngineNotFound)
	assert.Empty(t, env.transcript(t, sid))

	_, err = env.svc.End(ctx, sid)
	require.ErrorIs(t, err, domain.ErrEngineNotFound)
}

func TestActionValidationAndLookupErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	sid := env.seedSession(t)

	_, err := env.svc.Initialize(ctx, "")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "session_id is required", err.Error())

	_, err = env.svc.Initialize(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Session not found", err.Error())

	_, err = env.svc.Initialize(ctx, sid)
	require.ErrorIs(t, err, domain.ErrNoQuestions)

	_, err = env.svc.Respond(ctx, sid, "   ")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "student_response is required", err.Error())

	_, err = env.svc.End(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInitializeFallsBackToScripted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	sid := env.seedSession(t, "Q1")

	res, err := env.svc.Initialize(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, llm.ScriptedGreeting, res.OpeningMessage)

	events, err := env.svc.ListEvents(ctx, sid, 0, nil, 0)
	require.NoError(t, err)
	var types []domain.EventType
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []domain.EventType{
		domain.EventTypeEngineConstructFailed,
		domain.EventTypeEngineConstructFailed,
		domain.EventTypeEngineSelected,
		domain.EventTypeInterviewInitialized,
	}, types)
}

func TestReinitializeReplacesEngine(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	sid := env.seedSession(t, "Q1", "Q2")

	_, err := env.svc.Initialize(ctx, sid)
	require.NoError(t, err)
	first, ok := env.reg.Get(sid)
	require.True(t, ok)

	_, err = env.svc.Respond(ctx, sid, "a1")
	require.NoError(t, err)

	res, err := env.svc.Initialize(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "Q1", res.FirstQuestion)

	second, ok := env.reg.Get(sid)
	require.True(t, ok)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, env.reg.Len())

	r, err := env.svc.Respond(ctx, sid, "a1 again")
	require.NoError(t, err)
	assert.Equal(t, "Q2", r.AIResponse)
}

// backwardsClock moves one second into the past on every call.
type backwardsClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *backwardsClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(-time.Second)
	return c.t
}

func TestTranscriptTimestampsAndSpeakers(t *testing.T) {
	ctx := context.Background()
	clock := &backwardsClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	env := newTestEnv(t, nil, WithClock(clock.now))
	sid := env.seedSession(t, "Q1", "Q2", "Q3")

	_, err := env.svc.Initialize(ctx, sid)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := env.svc.Respond(ctx, sid, fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}
	_, err = env.svc.End(ctx, sid)
	require.NoError(t, err)

	entries := env.transcript(t, sid)
	require.Len(t, entries, 13)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.Before(entries[i-1].Timestamp), "entry %d goes back in time", i)
	}
	// After the two-entry opening, speakers alternate until the closing entry.
	for i := 2; i < len(entries)-1; i++ {
		want := domain.SpeakerRespondent
		if i%2 == 1 {
			want = domain.SpeakerInterviewer
		}
		assert.Equal(t, want, entries[i].Speaker, "entry %d", i)
	}
}

// flakyEngine wraps the scripted engine and fails Respond while fail is set.
type flakyEngine struct {
	*llm.ScriptedEngine
	mu   sync.Mutex
	fail bool
}

func (f *flakyEngine) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *flakyEngine) Respond(ctx context.Context, turn llm.Turn) (string, error) {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail && !turn.Directive {
		return "", &domain.EngineError{Provider: "flaky", Err: errors.New("503 upstream")}
	}
	return f.ScriptedEngine.Respond(ctx, turn)
}

func (f *flakyEngine) End(ctx context.Context) (string, error) {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return "", &domain.EngineError{Provider: "flaky", Err: errors.New("503 upstream")}
	}
	return f.ScriptedEngine.End(ctx)
}

func TestEngineErrorKeepsRespondentTurn(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyEngine{ScriptedEngine: llm.NewScriptedEngine()}
	env := newTestEnv(t, []llm.Candidate{{Name: "flaky", New: func() (llm.DialogueEngine, error) { return flaky, nil }}})
	sid := env.seedSession(t, "Q1", "Q2")

	_, err := env.svc.Initialize(ctx, sid)
	require.NoError(t, err)

	flaky.setFail(true)
	_, err = env.svc.Respond(ctx, sid, "important answer")
	var engineErr *domain.EngineError
	require.True(t, errors.As(err, &engineErr))

	entries := env.transcript(t, sid)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.SpeakerRespondent, entries[2].Speaker)
	assert.Equal(t, "important answer", entries[2].Message)

	_, err = env.svc.End(ctx, sid)
	require.True(t, errors.As(err, &engineErr))
	_, stillActive := env.reg.Get(sid)
	assert.True(t, stillActive)

	flaky.setFail(false)
	r, err := env.svc.Respond(ctx, sid, "retry")
	require.NoError(t, err)
	assert.Equal(t, "Q2", r.AIResponse)

	events, err := env.svc.ListEvents(ctx, sid, 0, []string{string(domain.EventTypeEngineError)}, 0)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEngineUnavailable(t *testing.T) {
	env := newTestEnv(t, []llm.Candidate{unreachable(llm.EngineGemini)})
	sid := env.seedSession(t, "Q1")

	_, err := env.svc.Initialize(context.Background(), sid)
	require.ErrorIs(t, err, domain.ErrEngineUnavailable)
	assert.Equal(t, 0, env.reg.Len())
	assert.Empty(t, env.transcript(t, sid))
}

func TestConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	const sessions = 8
	ids := make([]string, sessions)
	for i := range ids {
		ids[i] = env.seedSession(t, "Q1", "Q2", "Q3")
	}

	var wg sync.WaitGroup
	errs := make(chan error, sessions)
	for _, sid := range ids {
		wg.Add(1)
		go func(sid string) {
			defer wg.Done()
			if _, err := env.svc.Initialize(ctx, sid); err != nil {
				errs <- err
				return
			}
			for i := 0; i < 3; i++ {
				if _, err := env.svc.Respond(ctx, sid, "answer"); err != nil {
					errs <- err
					return
				}
			}
			if _, err := env.svc.End(ctx, sid); err != nil {
				errs <- err
			}
		}(sid)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, sid := range ids {
		entries := env.transcript(t, sid)
		require.Len(t, entries, 9)
		assert.Equal(t, "Q3", entries[5].Message)
		assert.Equal(t, domain.SpeakerRespondent, entries[6].Speaker)
		assert.Equal(t, llm.ScriptedExhausted, entries[7].Message)
		assert.Equal(t, llm.ScriptedValediction, entries[8].Message)
	}
	assert.Equal(t, 0, env.reg.Len())
}

func TestConcurrentRespondsOnSameSessionAreSerialized(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	sid := env.seedSession(t, "Q1", "Q2", "Q3", "Q4", "Q5")

	_, err := env.svc.Initialize(ctx, sid)
	require.NoError(t, err)

	const turns = 10
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.svc.Respond(ctx, sid, fmt.Sprintf("answer %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries := env.transcript(t, sid)
	require.Len(t, entries, 2+2*turns)
	for i := 2; i < len(entries); i += 2 {
		assert.Equal(t, domain.SpeakerRespondent, entries[i].Speaker)
		assert.Equal(t, domain.SpeakerInterviewer, entries[i+1].Speaker)
	}
	// Questions Q2..Q5 are each asked exactly once, in order.
	var asked []string
	for i := 3; i < len(entries); i += 2 {
		if entries[i].Message != llm.ScriptedExhausted {
			asked = append(asked, entries[i].Message)
		}
	}
	assert.Equal(t, []string{"Q2", "Q3", "Q4", "Q5"}, asked)
}
