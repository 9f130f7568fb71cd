// Package domain defines the core domain models for the interview service.
package domain

// SessionStatus represents the persisted lifecycle status of a session record.
type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

// Speaker identifies who authored a transcript entry.
type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerRespondent  Speaker = "respondent"
)

// Difficulty represents the difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Action is an orchestration action requested by a client.
type Action string

const (
	ActionInitialize Action = "initialize"
	ActionRespond    Action = "respond"
	ActionEnd        Action = "end"
)

// EventType represents the type of an interview event.
type EventType string

const (
	EventTypeInterviewInitialized  EventType = "interview_initialized"
	EventTypeEngineSelected        EventType = "engine_selected"
	EventTypeEngineRejected        EventType = "engine_rejected"
	EventTypeEngineConstructFailed EventType = "engine_construct_failed"
	EventTypeRespondentTurn        EventType = "respondent_turn"
	EventTypeEngineError           EventType = "engine_error"
	EventTypeInterviewEnded        EventType = "interview_ended"
)
