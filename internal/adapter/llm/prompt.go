package llm

import (
	"fmt"
	"strings"
)

// ContextItem is one key/value line of the interview context block.
type ContextItem struct {
	Key   string
	Value string
}

// PromptContext is an insertion-ordered list of context items.
type PromptContext []ContextItem

// Add appends a key/value pair and returns the extended context.
func (pc PromptContext) Add(key, value string) PromptContext {
	return append(pc, ContextItem{Key: key, Value: value})
}

const systemPreamble = `You are a professional and friendly AI interviewer. Your role is to conduct a structured interview
with a student/candidate. You should:

1. Be professional yet warm and encouraging
2. Ask the provided questions one at a time
3. Listen carefully to the candidate's responses
4. Ask relevant follow-up questions when appropriate
5. Provide smooth transitions between topics
6. Keep track of which questions have been asked
7. Manage the interview time effectively
8. End the interview gracefully when all questions are covered

IMPORTANT RULES:
- Only ask ONE question at a time
- Wait for the candidate's response before moving to the next question
- Be encouraging and create a comfortable environment
- If the candidate seems confused, rephrase the question
- Keep your responses concise and professional
`

// BuildSystemPrompt renders the interviewer instructions for the given questions and context.
// The output depends only on its inputs.
func BuildSystemPrompt(questions []string, pc PromptContext) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble)

	if len(pc) > 0 {
		sb.WriteString("\n\nINTERVIEW CONTEXT:\n")
		for _, item := range pc {
			fmt.Fprintf(&sb, "- %s: %s\n", item.Key, item.Value)
		}
	}

	sb.WriteString("\n\nQUESTIONS TO ASK (in order):\n")
	for i, q := range questions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
	}
	return sb.String()
}
