package agent

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/core"
	"github.com/Caerfyrddin29/PhishDetector/internal/reporting"
)

// Server is the local HTTP API the presentation layer talks to:
// scans, statistics, list management, settings, and health.
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewServer creates the agent API server
func NewServer(
	scans *core.ScanService,
	history *core.HistoryTracker,
	reputation *core.Reputation,
	analyzer core.Analyzer,
	extractor core.ContentExtractor,
	forwarder *reporting.Forwarder,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	server := &Server{
		echo:   e,
		logger: logger,
	}

	handler := newHandler(scans, history, reputation, analyzer, extractor, forwarder, logger)

	e.GET("/health", handler.health)
	api := e.Group("/api/v1")
	api.POST("/scan", handler.scan)
	api.GET("/stats", handler.stats)
	api.GET("/lists", handler.lists)
	api.POST("/senders/trust", handler.trust)
	api.POST("/senders/report", handler.report)
	api.POST("/domains/block", handler.blockDomain)
	api.GET("/settings", handler.getSettings)
	api.PUT("/settings", handler.putSettings)

	return server
}

// Start begins serving on the given address, blocking until shutdown
func (s *Server) Start(address string) error {
	s.logger.Info("Starting agent API", zap.String("address", address))
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down agent API")
	return s.echo.Shutdown(ctx)
}
