package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
	"github.com/priyanshupaikra/Inter-AI/internal/transport/ws"
)

// chatClient drives one live interview over WebSocket. Every request is answered by exactly
// one frame, so calls are synchronous.
type chatClient struct {
	conn      *websocket.Conn
	sessionID string
}

func dialChat(addr, sessionID string) (*chatClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &chatClient{conn: conn, sessionID: sessionID}, nil
}

func (c *chatClient) Close() error {
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

func (c *chatClient) call(frameType, text string) (*ws.ServerFrame, error) {
	frame := ws.ClientFrame{Type: frameType, SessionID: c.sessionID, StudentResponse: text}
	if err := c.conn.WriteJSON(frame); err != nil {
		return nil, fmt.Errorf("write %s: %w", frameType, err)
	}
	var reply ws.ServerFrame
	if err := c.conn.ReadJSON(&reply); err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	if reply.Type == ws.TypeError {
		return nil, fmt.Errorf("%s (status %d)", reply.Error, reply.Status)
	}
	return &reply, nil
}

// apiClient fetches records over the HTTP API.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) do(method, path, body string) ([]byte, error) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return data, nil
}

func (c *apiClient) Transcript(sessionID string) ([]domain.TranscriptEntry, error) {
	data, err := c.do(http.MethodGet, "/v1/sessions/"+sessionID+"/transcript", "")
	if err != nil {
		return nil, err
	}
	var out struct {
		Entries []domain.TranscriptEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return out.Entries, nil
}

func (c *apiClient) Report(sessionID string) ([]byte, error) {
	body, err := json.Marshal(domain.GenerateReportRequest{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	if _, err := c.do(http.MethodPost, "/v1/reports/generate", string(body)); err != nil {
		return nil, err
	}
	return c.do(http.MethodGet, "/v1/reports/"+sessionID, "")
}
