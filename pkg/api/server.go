// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/xid"

	httplib "github.com/targetkit/promptfilter/internal/http"
	"github.com/targetkit/promptfilter/pkg/agent"
	"github.com/targetkit/promptfilter/pkg/filter"
	loglib "github.com/targetkit/promptfilter/pkg/log"
)

// Server exposes the prompt parsing pipeline over HTTP.
type Server struct {
	server  httplib.Server
	logger  loglib.Logger
	parser  agent.Parser
	address string
	version string
}

type Option func(*Server)

func New(cfg *Config, parser agent.Parser, opts ...Option) *Server {
	s := &Server{
		address: cfg.address(),
		parser:  parser,
		logger:  loglib.NewNoopLogger(),
		version: "development",
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.readTimeout()
	e.Server.WriteTimeout = cfg.writeTimeout()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return xid.New().String() },
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/", s.serviceInfo)
	e.GET("/health", s.health)
	e.POST("/api/v1/parse-prompt", s.parsePrompt)

	s.server = e

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func WithLogger(l loglib.Logger) Option {
	return func(s *Server) {
		s.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "api_server",
		})
	}
}

func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// Start will start the API server. This call is blocking.
func (s *Server) Start() error {
	s.logger.Info(fmt.Sprintf("api server listening on: %s...", s.address))
	return s.server.Start(s.address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// parsePrompt converts a natural language prompt into audience filters. Any
// validation failure rejects the whole batch and surfaces the complete error
// list, so the caller can fix everything in one round trip.
func (s *Server) parsePrompt(c echo.Context) error {
	req := &ParseRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, &ErrorResponse{
			Error: "request body is not valid JSON",
		})
	}

	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, &ErrorResponse{
			Error:   "request validation failed",
			Details: map[string]any{"message": err.Error()},
		})
	}

	ctx := c.Request().Context()
	result, err := s.parser.Parse(ctx, req.Prompt)
	if err != nil {
		s.logger.Error(err, "parsing prompt", loglib.Fields{
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		})
		return c.JSON(http.StatusInternalServerError, &ErrorResponse{
			Error: "internal error while parsing the prompt",
		})
	}

	if len(result.Errors) > 0 {
		return c.JSON(http.StatusBadRequest, &ErrorResponse{
			Error: "the prompt contains unsupported filters",
			Details: map[string]any{
				"errors": filter.Messages(result.Errors),
			},
		})
	}

	return c.JSON(http.StatusOK, &FilterResponse{Filters: result.Filters})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "promptfilter",
	})
}

func (s *Server) serviceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, &ServiceInfo{
		Name:    "promptfilter",
		Version: s.version,
		Status:  "running",
	})
}
