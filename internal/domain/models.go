package domain

import (
	"encoding/json"
	"time"
)

// Interviewer owns interview sessions.
type Interviewer struct {
	InterviewerID string    `json:"interviewer_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

// Student is the respondent of an interview session.
type Student struct {
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents one interview instance.
type Session struct {
	SessionID       string        `json:"session_id"`
	InterviewerID   string        `json:"interviewer_id"`
	StudentID       string        `json:"student_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	EndedAt         *time.Time    `json:"ended_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Populated by GetSessionDetail.
	Interviewer *Interviewer `json:"interviewer,omitempty"`
	Student     *Student     `json:"student,omitempty"`
	Questions   []Question   `json:"questions,omitempty"`
}

// Question is an ordered prompt belonging to exactly one session.
type Question struct {
	QuestionID     int64      `json:"question_id"`
	SessionID      string     `json:"session_id"`
	Text           string     `json:"question_text"`
	Category       string     `json:"category,omitempty"`
	Difficulty     Difficulty `json:"difficulty"`
	Order          int        `json:"order"`
	ExpectedAnswer string     `json:"expected_answer,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TranscriptEntry is one persisted turn of an interview.
type TranscriptEntry struct {
	Seq        int64     `json:"seq"`
	SessionID  string    `json:"session_id"`
	Speaker    Speaker   `json:"speaker"`
	Message    string    `json:"message"`
	QuestionID *int64    `json:"question_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event represents an interview trace event.
type Event struct {
	EventID   string          `json:"event_id"`
	SessionID string          `json:"session_id"`
	Ts        int64           `json:"ts"` // Unix milliseconds
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Report is a rendered interview report. One per session.
type Report struct {
	ReportID    string    `json:"report_id"`
	SessionID   string    `json:"session_id"`
	ContentType string    `json:"content_type"`
	Content     []byte    `json:"-"`
	GeneratedAt time.Time `json:"generated_at"`
}
