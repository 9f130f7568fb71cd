// Package ws serves live interviews over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/priyanshupaikra/Inter-AI/internal/config"
	"github.com/priyanshupaikra/Inter-AI/internal/service"
	v1 "github.com/priyanshupaikra/Inter-AI/internal/transport/http/v1"
	"github.com/rs/zerolog/log"
)

const sendBufferSize = 16

// Server handles interview WebSocket connections.
type Server struct {
	cfg      config.WebSocketConfig
	service  *service.Service
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg config.WebSocketConfig, svc *service.Service) *Server {
	return &Server{
		cfg:     cfg,
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers the WebSocket route.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/v1/ws/interview", s.HandleWebSocket)
}

// connection is one client connection. Frames are written only by writePump.
type connection struct {
	id   string
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// HandleWebSocket upgrades the request and runs the connection until it closes.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade websocket")
		return err
	}

	conn := &connection{
		id:   "conn_" + uuid.New().String()[:8],
		ws:   ws,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
	if s.cfg.MaxMessageSize > 0 {
		ws.SetReadLimit(s.cfg.MaxMessageSize)
	}
	log.Info().Str("conn_id", conn.id).Msg("websocket connected")

	go s.writePump(conn)
	s.readPump(c.Request().Context(), conn)
	return nil
}

// readPump reads frames and handles them in order.
func (s *Server) readPump(ctx context.Context, conn *connection) {
	defer func() {
		conn.close()
		log.Info().Str("conn_id", conn.id).Msg("websocket disconnected")
	}()

	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(s.readDeadline())
	})

	for {
		conn.ws.SetReadDeadline(s.readDeadline())
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("conn_id", conn.id).Msg("websocket read error")
			}
			return
		}

		reply := s.handleFrame(ctx, data)
		out, err := json.Marshal(reply)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal frame")
			continue
		}
		select {
		case conn.send <- out:
		case <-conn.done:
			return
		}
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
func (s *Server) writePump(conn *connection) {
	interval := s.cfg.PingInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		conn.close()
	}()

	for {
		select {
		case message := <-conn.send:
			conn.ws.SetWriteDeadline(s.writeDeadline())
			if err := conn.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("conn_id", conn.id).Msg("failed to write frame")
				return
			}
		case <-ticker.C:
			conn.ws.SetWriteDeadline(s.writeDeadline())
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-conn.done:
			return
		}
	}
}

// handleFrame runs one interview action and builds the reply frame.
func (s *Server) handleFrame(ctx context.Context, data []byte) ServerFrame {
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return ServerFrame{Type: TypeError, Ts: nowMs(), Status: http.StatusBadRequest, Error: "invalid JSON message"}
	}

	switch frame.Type {
	case TypeInitialize:
		res, err := s.service.Initialize(ctx, frame.SessionID)
		if err != nil {
			return errorFrame(frame.SessionID, err)
		}
		return ServerFrame{
			Type:           TypeInitialized,
			Ts:             nowMs(),
			SessionID:      frame.SessionID,
			OpeningMessage: res.OpeningMessage,
			FirstQuestion:  res.FirstQuestion,
			Engine:         res.Engine,
		}
	case TypeRespond:
		res, err := s.service.Respond(ctx, frame.SessionID, frame.StudentResponse)
		if err != nil {
			return errorFrame(frame.SessionID, err)
		}
		return ServerFrame{Type: TypeResponse, Ts: nowMs(), SessionID: frame.SessionID, AIResponse: res.AIResponse}
	case TypeEnd:
		res, err := s.service.End(ctx, frame.SessionID)
		if err != nil {
			return errorFrame(frame.SessionID, err)
		}
		summary := res.Summary
		return ServerFrame{
			Type:           TypeEnded,
			Ts:             nowMs(),
			SessionID:      frame.SessionID,
			ClosingMessage: res.ClosingMessage,
			Summary:        &summary,
		}
	default:
		return ServerFrame{
			Type:      TypeError,
			Ts:        nowMs(),
			SessionID: frame.SessionID,
			Status:    http.StatusBadRequest,
			Error:     "Invalid action. Must be one of: initialize, respond, end",
		}
	}
}

func errorFrame(sessionID string, err error) ServerFrame {
	return ServerFrame{
		Type:      TypeError,
		Ts:        nowMs(),
		SessionID: sessionID,
		Status:    v1.StatusFor(err),
		Error:     err.Error(),
	}
}

func (s *Server) readDeadline() time.Time {
	if s.cfg.ReadTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(s.cfg.ReadTimeout)
}

func (s *Server) writeDeadline() time.Time {
	if s.cfg.WriteTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(s.cfg.WriteTimeout)
}

func nowMs() int64 { return time.Now().UnixMilli() }
