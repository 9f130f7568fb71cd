// Package repository defines the storage interface and its SQLite implementation.
package repository

import (
	"context"
	"time"

	"github.com/priyanshupaikra/Inter-AI/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Interviewer / student operations
	CreateInterviewer(ctx context.Context, interviewer *domain.Interviewer) error
	GetInterviewer(ctx context.Context, interviewerID string) (*domain.Interviewer, error)
	CreateStudent(ctx context.Context, student *domain.Student) error
	GetStudent(ctx context.Context, studentID string) (*domain.Student, error)

	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus, startedAt, endedAt *time.Time) error

	// Question operations
	CreateQuestions(ctx context.Context, sessionID string, questions []domain.Question) ([]domain.Question, error)
	ListQuestions(ctx context.Context, sessionID string) ([]domain.Question, error)

	// Transcript operations
	AppendTranscriptEntry(ctx context.Context, entry *domain.TranscriptEntry) error
	ListTranscript(ctx context.Context, sessionID string) ([]domain.TranscriptEntry, error)
	LastTranscriptTime(ctx context.Context, sessionID string) (time.Time, error)

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.Event, error)

	// Report operations
	CreateReport(ctx context.Context, report *domain.Report) error
	GetReport(ctx context.Context, sessionID string) (*domain.Report, error)

	// Lifecycle
	Close() error
}
