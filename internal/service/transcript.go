package service

import (
	"context"
	"fmt"
	"time"

	"github.com/priyanshupaikra/Inter-AI/internal/domain"
)

// appendEntry persists one transcript turn. Timestamps never go backwards within a session,
// even if the clock does. Callers must hold the session lock.
func (s *Service) appendEntry(ctx context.Context, sessionID string, speaker domain.Speaker, message string, questionID *int64) (*domain.TranscriptEntry, error) {
	last, err := s.store.LastTranscriptTime(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	ts := time.UnixMilli(s.now().UnixMilli())
	if ts.Before(last) {
		ts = last
	}

	entry := &domain.TranscriptEntry{
		SessionID:  sessionID,
		Speaker:    speaker,
		Message:    message,
		QuestionID: questionID,
		Timestamp:  ts,
	}
	if err := s.store.AppendTranscriptEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save %s message: %w", speaker, err)
	}
	return entry, nil
}

// ListTranscript returns the ordered transcript of a session.
func (s *Service) ListTranscript(ctx context.Context, sessionID string) ([]domain.TranscriptEntry, error) {
	if _, err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}
	entries, err := s.store.ListTranscript(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcript: %w", err)
	}
	if entries == nil {
		entries = []domain.TranscriptEntry{}
	}
	return entries, nil
}
