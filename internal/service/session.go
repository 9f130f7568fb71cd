package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
)

const defaultDurationMinutes = 30

// CreateInterviewer registers an interviewer.
func (s *Service) CreateInterviewer(ctx context.Context, req domain.CreateInterviewerRequest) (*domain.Interviewer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.Validationf("name is required")
	}
	iv := &domain.Interviewer{
		InterviewerID: "iv_" + uuid.New().String()[:8],
		Name:          req.Name,
		Email:         req.Email,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateInterviewer(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to create interviewer: %w", err)
	}
	return iv, nil
}

// CreateStudent registers a student.
func (s *Service) CreateStudent(ctx context.Context, req domain.CreateStudentRequest) (*domain.Student, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.Validationf("name is required")
	}
	st := &domain.Student{
		StudentID: "st_" + uuid.New().String()[:8],
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateStudent(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	return st, nil
}

// CreateSession schedules a new interview session.
func (s *Service) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.Session, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.Validationf("title is required")
	}
	if req.DurationMinutes < 0 {
		return nil, domain.Validationf("duration_minutes must be positive")
	}
	if req.InterviewerID != "" {
		iv, err := s.store.GetInterviewer(ctx, req.InterviewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get interviewer: %w", err)
		}
		if iv == nil {
			return nil, domain.NotFoundf("Interviewer not found")
		}
	}
	if req.StudentID != "" {
		st, err := s.store.GetStudent(ctx, req.StudentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get student: %w", err)
		}
		if st == nil {
			return nil, domain.NotFoundf("Student not found")
		}
	}

	now := s.now()
	session := &domain.Session{
		SessionID:       uuid.New().String(),
		InterviewerID:   req.InterviewerID,
		StudentID:       req.StudentID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Status:          domain.SessionStatusScheduled,
		ScheduledAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if session.DurationMinutes == 0 {
		session.DurationMinutes = defaultDurationMinutes
	}
	if req.ScheduledAt != nil {
		session.ScheduledAt = *req.ScheduledAt
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession returns a session with its participants and ordered questions.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.InterviewerID != "" {
		if session.Interviewer, err = s.store.GetInterviewer(ctx, session.InterviewerID); err != nil {
			return nil, fmt.Errorf("failed to get interviewer: %w", err)
		}
	}
	if session.StudentID != "" {
		if session.Student, err = s.store.GetStudent(ctx, session.StudentID); err != nil {
			return nil, fmt.Errorf("failed to get student: %w", err)
		}
	}
	if session.Questions, err = s.store.ListQuestions(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return session, nil
}

// StartSession moves a scheduled session to in_progress.
func (s *Service) StartSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusScheduled {
		return nil, domain.Validationf("Session cannot be started")
	}
	now := s.now()
	if err := s.store.UpdateSessionStatus(ctx, sessionID, domain.SessionStatusInProgress, &now, nil); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	session.Status = domain.SessionStatusInProgress
	session.StartedAt = &now
	return session, nil
}

// CompleteSession moves an in_progress session to completed.
func (s *Service) CompleteSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusInProgress {
		return nil, domain.Validationf("Session is not in progress")
	}
	now := s.now()
	if err := s.store.UpdateSessionStatus(ctx, sessionID, domain.SessionStatusCompleted, nil, &now); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	session.Status = domain.SessionStatusCompleted
	session.EndedAt = &now
	return session, nil
}

// AddQuestions bulk-adds questions to a session.
func (s *Service) AddQuestions(ctx context.Context, sessionID string, req domain.AddQuestionsRequest) ([]domain.Question, error) {
	unlock := s.registry.Lock(sessionID)
	defer unlock()

	if _, err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}
	// The live engine holds its own copy of the question list.
	if _, active := s.registry.Get(sessionID); active {
		return nil, domain.Validationf("Questions cannot be changed while the interview is in progress")
	}
	if len(req.Questions) == 0 {
		return nil, domain.Validationf("questions are required")
	}
	questions := make([]domain.Question, 0, len(req.Questions))
	for i, in := range req.Questions {
		if strings.TrimSpace(in.Text) == "" {
			return nil, domain.Validationf("questions[%d].question_text is required", i)
		}
		if in.Difficulty != "" && !in.Difficulty.Valid() {
			return nil, domain.Validationf("questions[%d].difficulty must be one of: easy, medium, hard", i)
		}
		questions = append(questions, domain.Question{
			Text:           in.Text,
			Category:       in.Category,
			Difficulty:     in.Difficulty,
			Order:          in.Order,
			ExpectedAnswer: in.ExpectedAnswer,
		})
	}
	created, err := s.store.CreateQuestions(ctx, sessionID, questions)
	if err != nil {
		return nil, fmt.Errorf("failed to create questions: %w", err)
	}
	return created, nil
}

// ListQuestions returns the questions of a session in asking order.
func (s *Service) ListQuestions(ctx context.Context, sessionID string) ([]domain.Question, error) {
	if _, err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}

func (s *Service) requireSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.Validationf("session_id is required")
	}
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.NotFoundf("Session not found")
	}
	return session, nil
}
