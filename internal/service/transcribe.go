package service

import (
	"context"
	"io"
)

// Transcribe converts respondent audio into text. Nothing is persisted.
func (s *Service) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	ctx, span := s.tracer.Start(ctx, "interview.transcribe")
	defer span.End()
	return s.transcriber.Transcribe(ctx, filename, audio)
}
