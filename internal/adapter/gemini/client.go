// Package gemini provides a minimal client for the Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Client is the Gemini API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Gemini client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Part is a piece of message content.
type Part struct {
	Text string `json:"text"`
}

// Content is one role-tagged message. Role is "user" or "model".
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// GenerationConfig controls sampling.
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

// GenerateContentRequest is the request body of models/{model}:generateContent.
type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateContentResponse is the response body of generateContent.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Text concatenates the parts of the first candidate.
func (r *GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError represents the error details.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GenerateContent sends a generateContent request for the given model.
func (c *Client) GenerateContent(ctx context.Context, model string, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return nil, fmt.Errorf("gemini API error [%d]: %s (status: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Status)
		}
		return nil, fmt.Errorf("gemini API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result GenerateContentResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("gemini API returned no candidates")
	}
	if strings.TrimSpace(result.Text()) == "" {
		reason := result.Candidates[0].FinishReason
		if reason == "" {
			reason = "unknown"
		}
		return nil, fmt.Errorf("gemini API returned an empty candidate (finish reason: %s)", reason)
	}

	return &result, nil
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}
}

// ChatSession keeps the conversation contents on the client side so that callers only
// send the newest message.
type ChatSession struct {
	client *Client
	model  string
	config *GenerationConfig

	mu      sync.Mutex
	history []Content
}

// StartChat opens a chat session with an empty history.
func (c *Client) StartChat(model string, config *GenerationConfig) *ChatSession {
	return &ChatSession{client: c, model: model, config: config}
}

// SendMessage sends text as the next user turn. The exchange is added to the history only
// when the call succeeds.
func (s *ChatSession) SendMessage(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := Content{Role: "user", Parts: []Part{{Text: text}}}
	contents := make([]Content, 0, len(s.history)+1)
	contents = append(contents, s.history...)
	contents = append(contents, user)

	resp, err := s.client.GenerateContent(ctx, s.model, &GenerateContentRequest{
		Contents:         contents,
		GenerationConfig: s.config,
	})
	if err != nil {
		return "", err
	}

	reply := resp.Text()
	s.history = append(s.history, user, Content{Role: "model", Parts: []Part{{Text: reply}}})
	return reply, nil
}

// History returns a copy of the accumulated contents.
func (s *ChatSession) History() []Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Content, len(s.history))
	copy(out, s.history)
	return out
}
