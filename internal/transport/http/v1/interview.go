package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
)

const audioField = "audio_file"

// AIInterview dispatches an interview action.
// POST /v1/ai-interview
func (h *Handler) AIInterview(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.ActionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	switch req.Action {
	case domain.ActionInitialize:
		res, err := h.service.Initialize(ctx, req.SessionID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, res)

	case domain.ActionRespond:
		if strings.TrimSpace(req.StudentResponse) == "" {
			text, err := h.transcribeUpload(c)
			if err != nil {
				return respondError(c, err)
			}
			req.StudentResponse = text
		}
		res, err := h.service.Respond(ctx, req.SessionID, req.StudentResponse)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, res)

	case domain.ActionEnd:
		res, err := h.service.End(ctx, req.SessionID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, res)

	default:
		return badRequest(c, "Invalid action. Must be one of: initialize, respond, end")
	}
}

// Transcribe converts an uploaded audio file to text without recording it.
// POST /v1/transcribe
func (h *Handler) Transcribe(c echo.Context) error {
	if !isMultipart(c) {
		return badRequest(c, "audio_file is required")
	}
	fh, err := c.FormFile(audioField)
	if err != nil {
		return badRequest(c, "audio_file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	text, err := h.service.Transcribe(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"text": text})
}

// transcribeUpload returns the transcription of the request's audio file, or "" when the
// request carries none.
func (h *Handler) transcribeUpload(c echo.Context) (string, error) {
	if !isMultipart(c) {
		return "", nil
	}
	fh, err := c.FormFile(audioField)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", domain.Validationf("invalid audio upload")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.service.Transcribe(c.Request().Context(), fh.Filename, f)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
