package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "debug", "json")
	t.Cleanup(func() { Configure(&bytes.Buffer{}, "info", "json") })

	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/missing-thing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing-thing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/missing-thing", entry["path"])
	assert.EqualValues(t, 404, entry["status"])
}

func TestConfigureFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "not-a-level", "json")
	t.Cleanup(func() { Configure(&bytes.Buffer{}, "info", "json") })

	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Contains(t, buf.String(), `"level":"info"`)
}
