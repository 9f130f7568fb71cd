package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
)

// GenerateReport renders and stores the report of a session.
// POST /v1/reports/generate
func (h *Handler) GenerateReport(c echo.Context) error {
	var req domain.GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.SessionID == "" {
		return badRequest(c, "session_id is required")
	}

	r, err := h.service.GenerateReport(c.Request().Context(), req.SessionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"report_id":    r.ReportID,
		"session_id":   r.SessionID,
		"generated_at": r.GeneratedAt.UnixMilli(),
		"url":          "/v1/reports/" + r.SessionID,
	})
}

// GetReport returns the stored report document.
// GET /v1/reports/:session_id
func (h *Handler) GetReport(c echo.Context) error {
	r, err := h.service.GetReport(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Blob(http.StatusOK, r.ContentType, r.Content)
}
