package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/priyanshupaikra/Inter-AI/internal/report"
)

// GenerateReport renders and stores the report of a session. An existing report is returned
// unchanged.
func (s *Service) GenerateReport(ctx context.Context, sessionID string) (*domain.Report, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetReport(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	transcript, err := s.store.ListTranscript(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcript: %w", err)
	}
	content, err := report.Render(session, transcript)
	if err != nil {
		return nil, err
	}

	r := &domain.Report{
		ReportID:    "rpt_" + uuid.New().String()[:8],
		SessionID:   sessionID,
		ContentType: report.ContentType,
		Content:     content,
		GeneratedAt: s.now(),
	}
	if err := s.store.CreateReport(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return r, nil
}

// GetReport returns the stored report of a session.
func (s *Service) GetReport(ctx context.Context, sessionID string) (*domain.Report, error) {
	if _, err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}
	r, err := s.store.GetReport(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if r == nil {
		return nil, domain.NotFoundf("Report not found")
	}
	return r, nil
}
