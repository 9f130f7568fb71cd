package llm

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tiktoken-go/tokenizer"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

func loadCodec() tokenizer.Codec {
	codecOnce.Do(func() {
		c, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			log.Warn().Err(err).Msg("tokenizer unavailable, token estimates disabled")
			return
		}
		codec = c
	})
	return codec
}

// summarize counts conversational messages. System and directive entries are kept in the
// returned history but excluded from every count.
func summarize(history []Message) Summary {
	s := Summary{History: make([]Message, len(history))}
	copy(s.History, history)

	c := loadCodec()
	for _, m := range history {
		switch m.Role {
		case RoleRespondent:
			s.RespondentMessages++
		case RoleInterviewer:
			s.InterviewerMessages++
		default:
			continue
		}
		if c != nil {
			ids, _, err := c.Encode(m.Content)
			if err == nil {
				s.ApproxTokens += len(ids)
			}
		}
	}
	s.TotalMessages = s.RespondentMessages + s.InterviewerMessages
	return s
}
