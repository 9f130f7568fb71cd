package domain

import "time"

// ActionRequest is the body of the interview action endpoint.
type ActionRequest struct {
	Action          Action `json:"action" form:"action"`
	SessionID       string `json:"session_id" form:"session_id"`
	StudentResponse string `json:"student_response" form:"student_response"`
}

// CreateInterviewerRequest is the body for creating an interviewer.
type CreateInterviewerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateStudentRequest is the body for creating a student.
type CreateStudentRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateSessionRequest is the body for scheduling an interview session.
type CreateSessionRequest struct {
	InterviewerID   string     `json:"interviewer_id"`
	StudentID       string     `json:"student_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
}

// QuestionInput is one question in a bulk-create request.
type QuestionInput struct {
	Text           string     `json:"question_text"`
	Category       string     `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	Order          int        `json:"order"`
	ExpectedAnswer string     `json:"expected_answer"`
}

// AddQuestionsRequest is the body for adding questions to a session.
type AddQuestionsRequest struct {
	Questions []QuestionInput `json:"questions"`
}

// GenerateReportRequest is the body of the report generation endpoint.
type GenerateReportRequest struct {
	SessionID string `json:"session_id"`
}
