// Package service implements the interview orchestration and record management logic.
package service

import (
	"context"
	"time"

	"github.com/priyanshupaikra/Inter-AI/internal/adapter/llm"
	"github.com/priyanshupaikra/Inter-AI/internal/adapter/transcribe"
	"github.com/priyanshupaikra/Inter-AI/internal/registry"
	"github.com/priyanshupaikra/Inter-AI/internal/repository"
	"github.com/priyanshupaikra/Inter-AI/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// EngineSelector picks a dialogue engine for a session.
type EngineSelector interface {
	Select(ctx context.Context, req llm.SelectRequest) (*llm.Selection, error)
}

type Service struct {
	store       repository.Store
	selector    EngineSelector
	registry    *registry.Registry
	transcriber transcribe.Transcriber
	tracer      trace.Tracer
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source used for transcript timestamps and records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTranscriber sets the audio transcriber.
func WithTranscriber(t transcribe.Transcriber) Option {
	return func(s *Service) { s.transcriber = t }
}

func New(store repository.Store, selector EngineSelector, reg *registry.Registry, opts ...Option) *Service {
	s := &Service{
		store:       store,
		selector:    selector,
		registry:    reg,
		transcriber: transcribe.Disabled{},
		tracer:      telemetry.Tracer(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
