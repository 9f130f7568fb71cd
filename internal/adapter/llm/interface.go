// Package llm provides the dialogue engines that drive an interview conversation.
package llm

import "context"

// Role tags a message in an engine's conversation history.
type Role string

const (
	// RoleSystem holds the instruction set installed on initialize.
	RoleSystem Role = "system"
	// RoleDirective marks synthetic orchestration instructions such as "ask the first question".
	RoleDirective Role = "directive"
	// RoleInterviewer marks utterances produced by the engine.
	RoleInterviewer Role = "interviewer"
	// RoleRespondent marks replies from the candidate.
	RoleRespondent Role = "respondent"
)

// Synthetic directives sent to provider-backed engines.
const (
	DirectiveGreeting      = "Start the interview with a warm greeting."
	DirectiveFirstQuestion = "Please ask the first question."
	DirectiveNextQuestion  = "Please ask the next question."
	DirectiveClose         = "The interview is now complete. Thank the candidate and provide a professional closing statement."
)

// Message is one role-tagged history entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turn is the input of a Respond call. An empty Text means no new message.
type Turn struct {
	Text      string
	Directive bool
}

// Summary describes the accumulated conversation of an engine.
// TotalMessages counts respondent and interviewer messages only.
type Summary struct {
	TotalMessages       int       `json:"total_messages"`
	RespondentMessages  int       `json:"respondent_message_count"`
	InterviewerMessages int       `json:"interviewer_message_count"`
	ApproxTokens        int       `json:"approx_tokens"`
	History             []Message `json:"full_history"`
}

// DialogueEngine turns a respondent's latest message into the next interviewer utterance.
type DialogueEngine interface {
	// Name identifies the engine variant.
	Name() string

	// Initialize resets the history, installs the question list and returns a greeting.
	Initialize(ctx context.Context, questions []string, pc PromptContext) (string, error)

	// Respond records turn (when non-empty) and produces the next utterance.
	Respond(ctx context.Context, turn Turn) (string, error)

	// End produces a closing statement.
	End(ctx context.Context) (string, error)

	// Summary returns a snapshot of the conversation.
	Summary() Summary
}

// Engine names used in selection and configuration.
const (
	EngineGemini   = "gemini"
	EngineOpenAI   = "openai"
	EngineScripted = "scripted"
)

var (
	_ DialogueEngine = (*ScriptedEngine)(nil)
	_ DialogueEngine = (*OpenAIEngine)(nil)
	_ DialogueEngine = (*GeminiEngine)(nil)
)
