// Package v1 provides the HTTP handlers of the interview API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/priyanshupaikra/Inter-AI/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Interview actions
	e.POST("/v1/ai-interview", h.AIInterview)
	e.POST("/v1/transcribe", h.Transcribe)

	// Records
	e.POST("/v1/interviewers", h.CreateInterviewer)
	e.POST("/v1/students", h.CreateStudent)
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.POST("/v1/sessions/:session_id/start", h.StartSession)
	e.POST("/v1/sessions/:session_id/complete", h.CompleteSession)
	e.POST("/v1/sessions/:session_id/questions", h.AddQuestions)
	e.GET("/v1/sessions/:session_id/questions", h.ListQuestions)
	e.GET("/v1/sessions/:session_id/transcript", h.GetTranscript)
	e.GET("/v1/sessions/:session_id/events", h.GetSessionEvents)

	// Reports
	e.POST("/v1/reports/generate", h.GenerateReport)
	e.GET("/v1/reports/:session_id", h.GetReport)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
