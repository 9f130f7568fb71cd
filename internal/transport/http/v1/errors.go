package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
)

// StatusFor maps a service error to an HTTP status code. Engine failures and anything
// unclassified are 500.
func StatusFor(err error) int {
	var transcriptionErr *domain.TranscriptionError
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEngineNotFound),
		errors.Is(err, domain.ErrNoQuestions),
		errors.As(err, &transcriptionErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	return c.JSON(StatusFor(err), map[string]string{"error": err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
