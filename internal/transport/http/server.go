// Package http assembles the HTTP server of the interview service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/priyanshupaikra/Inter-AI/internal/config"
	"github.com/priyanshupaikra/Inter-AI/internal/logging"
	"github.com/priyanshupaikra/Inter-AI/internal/service"
	v1 "github.com/priyanshupaikra/Inter-AI/internal/transport/http/v1"
	"github.com/priyanshupaikra/Inter-AI/internal/transport/ws"
)

// NewServer creates and configures the HTTP server, including the live interview WebSocket.
func NewServer(svc *service.Service, wsCfg config.WebSocketConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	wsServer := ws.NewServer(wsCfg, svc)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	wsServer.RegisterRoutes(e)

	return e
}
