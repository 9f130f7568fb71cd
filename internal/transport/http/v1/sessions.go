package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
)

// CreateInterviewer registers an interviewer.
// POST /v1/interviewers
func (h *Handler) CreateInterviewer(c echo.Context) error {
	var req domain.CreateInterviewerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	iv, err := h.service.CreateInterviewer(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, iv)
}

// CreateStudent registers a student.
// POST /v1/students
func (h *Handler) CreateStudent(c echo.Context) error {
	var req domain.CreateStudentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	st, err := h.service.CreateStudent(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, st)
}

// CreateSession schedules an interview session.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var req domain.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	session, err := h.service.CreateSession(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// GetSession returns a session with participants and questions.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// StartSession marks a scheduled session as in progress.
// POST /v1/sessions/:session_id/start
func (h *Handler) StartSession(c echo.Context) error {
	session, err := h.service.StartSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// CompleteSession marks an in-progress session as completed.
// POST /v1/sessions/:session_id/complete
func (h *Handler) CompleteSession(c echo.Context) error {
	session, err := h.service.CompleteSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// AddQuestions bulk-adds questions to a session.
// POST /v1/sessions/:session_id/questions
func (h *Handler) AddQuestions(c echo.Context) error {
	var req domain.AddQuestionsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	questions, err := h.service.AddQuestions(c.Request().Context(), c.Param("session_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"questions": questions,
	})
}

// ListQuestions returns the questions of a session in order.
// GET /v1/sessions/:session_id/questions
func (h *Handler) ListQuestions(c echo.Context) error {
	questions, err := h.service.ListQuestions(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"questions": questions,
	})
}

// GetTranscript returns the transcript of a session.
// GET /v1/sessions/:session_id/transcript
func (h *Handler) GetTranscript(c echo.Context) error {
	entries, err := h.service.ListTranscript(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

// GetSessionEvents returns the event trail of a session.
// GET /v1/sessions/:session_id/events
func (h *Handler) GetSessionEvents(c echo.Context) error {
	limit := 100
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	afterTs := int64(0)
	if t := c.QueryParam("after_ts"); t != "" {
		if val, err := strconv.ParseInt(t, 10, 64); err == nil {
			afterTs = val
		}
	}
	var types []string
	if raw := c.QueryParam("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}

	events, err := h.service.ListEvents(c.Request().Context(), c.Param("session_id"), afterTs, types, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": events,
	})
}
