package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed request fields.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown session or record.
	ErrNotFound = errors.New("not found")
	// ErrEngineNotFound is returned when respond or end is requested for a session without a live engine.
	ErrEngineNotFound = errors.New("AI session not found. Please initialize the interview first.")
	// ErrNoQuestions is returned when a session has no questions configured.
	ErrNoQuestions = errors.New("No questions found for this session")
	// ErrEngineUnavailable is returned when no engine candidate could be constructed.
	ErrEngineUnavailable = errors.New("no dialogue engine available")
)

// Validationf returns an ErrValidation carrying a formatted message.
func Validationf(format string, args ...any) error {
	return &messageError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns an ErrNotFound carrying a formatted message.
func NotFoundf(format string, args ...any) error {
	return &messageError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// messageError pairs a sentinel with a client-facing message.
type messageError struct {
	kind error
	msg  string
}

func (e *messageError) Error() string { return e.msg }

func (e *messageError) Is(target error) bool { return target == e.kind }

// EngineError wraps any failure raised by a dialogue provider.
type EngineError struct {
	Provider string
	Err      error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("AI service error: %v", e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// TranscriptionError wraps a failure to convert audio to text.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("Audio transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
