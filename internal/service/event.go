package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/rs/zerolog/log"
)

// recordEvent records an event to the store. Failures are logged and never fail the caller.
func (s *Service) recordEvent(ctx context.Context, sessionID string, eventType domain.EventType, payload interface{}) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(eventType)).Msg("failed to marshal event payload")
		return
	}

	event := &domain.Event{
		EventID:   "evt_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Ts:        s.now().UnixMilli(),
		Type:      eventType,
		Payload:   payloadBytes,
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Str("type", string(eventType)).Msg("failed to record event")
	}
}

// ListEvents returns the event trail of a session.
func (s *Service) ListEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	if _, err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}
	events, err := s.store.GetEvents(ctx, sessionID, afterTs, types, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}
