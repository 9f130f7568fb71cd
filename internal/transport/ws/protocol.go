package ws

import "github.com/priyanshupaikra/Inter-AI/internal/adapter/llm"

// Frame types from client to server. They mirror the HTTP action names.
const (
	TypeInitialize = "initialize"
	TypeRespond    = "respond"
	TypeEnd        = "end"
)

// Frame types from server to client.
const (
	TypeInitialized = "initialized"
	TypeResponse    = "response"
	TypeEnded       = "ended"
	TypeError       = "error"
)

// ClientFrame is a request sent by the client.
type ClientFrame struct {
	Type            string `json:"type"`
	SessionID       string `json:"session_id"`
	StudentResponse string `json:"student_response,omitempty"`
}

// ServerFrame is a reply sent by the server. Only the fields relevant to Type are set.
type ServerFrame struct {
	Type           string       `json:"type"`
	Ts             int64        `json:"ts"`
	SessionID      string       `json:"session_id,omitempty"`
	OpeningMessage string       `json:"opening_message,omitempty"`
	FirstQuestion  string       `json:"first_question,omitempty"`
	Engine         string       `json:"engine,omitempty"`
	AIResponse     string       `json:"ai_response,omitempty"`
	ClosingMessage string       `json:"closing_message,omitempty"`
	Summary        *llm.Summary `json:"summary,omitempty"`
	Status         int          `json:"status,omitempty"`
	Error          string       `json:"error,omitempty"`
}
