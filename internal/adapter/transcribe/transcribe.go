// Package transcribe converts recorded respondent audio into text.
package transcribe

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

// Transcriber turns audio into text. Failures are *domain.TranscriptionError.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Whisper transcribes audio with the OpenAI audio API.
type Whisper struct {
	client *go_openai.Client
	model  string
}

// NewWhisper creates a Whisper transcriber.
func NewWhisper(apiKey, baseURL, model string) *Whisper {
	config := go_openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = go_openai.Whisper1
	}
	return &Whisper{client: go_openai.NewClientWithConfig(config), model: model}
}

// Transcribe sends the audio to the transcription endpoint.
func (w *Whisper) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if filename == "" {
		filename = "audio.webm"
	}
	resp, err := w.client.CreateTranscription(ctx, go_openai.AudioRequest{
		Model:    w.model,
		FilePath: filename,
		Reader:   audio,
		Format:   go_openai.AudioResponseFormatJSON,
	})
	if err != nil {
		log.Error().Err(err).Str("file", filename).Msg("failed to transcribe")
		return "", &domain.TranscriptionError{Err: err}
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", &domain.TranscriptionError{Err: errors.New("no speech detected")}
	}
	return text, nil
}

// Disabled is used when no transcription backend is configured.
type Disabled struct{}

// Transcribe always fails.
func (Disabled) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	return "", &domain.TranscriptionError{Err: errors.New("transcription is not configured")}
}

var (
	_ Transcriber = (*Whisper)(nil)
	_ Transcriber = Disabled{}
)
