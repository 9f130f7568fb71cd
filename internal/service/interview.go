package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/priyanshupaikra/Inter-AI/internal/adapter/llm"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InitializeResult is returned by Initialize.
type InitializeResult struct {
	Success        bool   `json:"success"`
	OpeningMessage string `json:"opening_message"`
	FirstQuestion  string `json:"first_question"`
	Engine         string `json:"engine"`
}

// RespondResult is returned by Respond.
type RespondResult struct {
	Success    bool   `json:"success"`
	AIResponse string `json:"ai_response"`
}

// EndResult is returned by End.
type EndResult struct {
	Success        bool        `json:"success"`
	ClosingMessage string      `json:"closing_message"`
	Summary        llm.Summary `json:"summary"`
}

// Initialize selects an engine for the session, records the greeting and the first question,
// and registers the engine. An existing engine for the session is replaced.
func (s *Service) Initialize(ctx context.Context, sessionID string) (res *InitializeResult, err error) {
	if sessionID == "" {
		return nil, domain.Validationf("session_id is required")
	}
	ctx, span := s.startSpan(ctx, "interview.initialize", sessionID)
	defer func() { endSpan(span, err) }()

	unlock := s.registry.Lock(sessionID)
	defer unlock()

	session, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}

	texts := make([]string, len(questions))
	for i, q := range questions {
		texts[i] = q.Text
	}
	pc := llm.PromptContext{}.Add("title", session.Title)
	if session.StudentID != "" {
		student, err := s.store.GetStudent(ctx, session.StudentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load student: %w", err)
		}
		if student != nil {
			pc = pc.Add("student_name", student.Name)
		}
	}
	pc = pc.Add("duration", strconv.Itoa(session.DurationMinutes)+" minutes")

	sel, err := s.selector.Select(ctx, llm.SelectRequest{SessionID: sessionID, Title: session.Title})
	if sel != nil {
		s.recordAttempts(ctx, sessionID, sel.Attempts)
	}
	if err != nil {
		return nil, err
	}
	engine := sel.Engine
	span.SetAttributes(attribute.String("interview.engine", engine.Name()))

	opening, err := engine.Initialize(ctx, texts, pc)
	if err != nil {
		s.recordEngineError(ctx, sessionID, engine.Name(), "initialize", err)
		return nil, err
	}
	if _, err := s.appendEntry(ctx, sessionID, domain.SpeakerInterviewer, opening, nil); err != nil {
		return nil, err
	}

	first, err := engine.Respond(ctx, llm.Turn{Text: llm.DirectiveFirstQuestion, Directive: true})
	if err != nil {
		s.recordEngineError(ctx, sessionID, engine.Name(), "first_question", err)
		return nil, err
	}
	firstID := questions[0].QuestionID
	if _, err := s.appendEntry(ctx, sessionID, domain.SpeakerInterviewer, first, &firstID); err != nil {
		return nil, err
	}

	_, replaced := s.registry.Get(sessionID)
	s.registry.Put(sessionID, engine)

	s.recordEvent(ctx, sessionID, domain.EventTypeInterviewInitialized, map[string]interface{}{
		"engine":         engine.Name(),
		"question_count": len(questions),
		"replaced":       replaced,
	})
	log.Info().Str("session_id", sessionID).Str("engine", engine.Name()).Bool("replaced", replaced).Msg("interview initialized")

	return &InitializeResult{
		Success:        true,
		OpeningMessage: opening,
		FirstQuestion:  first,
		Engine:         engine.Name(),
	}, nil
}

// Respond records the respondent's message, then asks the engine for the next utterance.
// The respondent's message stays recorded even when the engine call fails.
func (s *Service) Respond(ctx context.Context, sessionID, message string) (res *RespondResult, err error) {
	if sessionID == "" {
		return nil, domain.Validationf("session_id is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, domain.Validationf("student_response is required")
	}
	ctx, span := s.startSpan(ctx, "interview.respond", sessionID)
	defer func() { endSpan(span, err) }()

	unlock := s.registry.Lock(sessionID)
	defer unlock()

	if _, err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}
	engine, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, domain.ErrEngineNotFound
	}

	entry, err := s.appendEntry(ctx, sessionID, domain.SpeakerRespondent, message, nil)
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, sessionID, domain.EventTypeRespondentTurn, map[string]interface{}{
		"seq":    entry.Seq,
		"length": len(message),
	})

	reply, err := engine.Respond(ctx, llm.Turn{Text: message})
	if err != nil {
		s.recordEngineError(ctx, sessionID, engine.Name(), "respond", err)
		return nil, err
	}
	if _, err := s.appendEntry(ctx, sessionID, domain.SpeakerInterviewer, reply, nil); err != nil {
		return nil, err
	}

	return &RespondResult{Success: true, AIResponse: reply}, nil
}

// End asks the engine for a closing statement, records it and evicts the engine.
// When the engine call fails the engine stays registered so the caller can retry.
func (s *Service) End(ctx context.Context, sessionID string) (res *EndResult, err error) {
	if sessionID == "" {
		return nil, domain.Validationf("session_id is required")
	}
	ctx, span := s.startSpan(ctx, "interview.end", sessionID)
	defer func() { endSpan(span, err) }()

	unlock := s.registry.Lock(sessionID)
	defer unlock()

	if _, err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}
	engine, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, domain.ErrEngineNotFound
	}

	closing, err := engine.End(ctx)
	if err != nil {
		s.recordEngineError(ctx, sessionID, engine.Name(), "end", err)
		return nil, err
	}
	if _, err := s.appendEntry(ctx, sessionID, domain.SpeakerInterviewer, closing, nil); err != nil {
		return nil, err
	}

	summary := engine.Summary()
	s.registry.Remove(sessionID)

	s.recordEvent(ctx, sessionID, domain.EventTypeInterviewEnded, map[string]interface{}{
		"engine":                    engine.Name(),
		"total_messages":            summary.TotalMessages,
		"respondent_message_count":  summary.RespondentMessages,
		"interviewer_message_count": summary.InterviewerMessages,
		"approx_tokens":             summary.ApproxTokens,
	})
	log.Info().Str("session_id", sessionID).Int("total_messages", summary.TotalMessages).Msg("interview ended")

	return &EndResult{Success: true, ClosingMessage: closing, Summary: summary}, nil
}

func (s *Service) recordAttempts(ctx context.Context, sessionID string, attempts []llm.Attempt) {
	for _, a := range attempts {
		var t domain.EventType
		switch a.Outcome {
		case llm.OutcomeSelected:
			t = domain.EventTypeEngineSelected
		case llm.OutcomeRejected:
			t = domain.EventTypeEngineRejected
		default:
			t = domain.EventTypeEngineConstructFailed
		}
		s.recordEvent(ctx, sessionID, t, a)
	}
}

func (s *Service) recordEngineError(ctx context.Context, sessionID, engine, stage string, err error) {
	log.Error().Err(err).Str("session_id", sessionID).Str("engine", engine).Str("stage", stage).Msg("engine call failed")
	s.recordEvent(ctx, sessionID, domain.EventTypeEngineError, map[string]interface{}{
		"engine": engine,
		"stage":  stage,
		"error":  err.Error(),
	})
}

func (s *Service) startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("interview.session_id", sessionID)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
