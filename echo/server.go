// Package echo provides the HTTP API built on the Echo web framework.
package echo

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/quietriver/sitesage"
	"github.com/quietriver/sitesage/rag"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// DefaultExampleQuestions are served to clients as starter questions for
// the default site configuration.
var DefaultExampleQuestions = []string{
	"What is the Rain Vortex at Jewel Changi Airport?",
	"How many terminals does Changi Airport have?",
	"What are the operating hours of Jewel Changi Airport?",
	"What airlines operate from Changi Airport?",
	"What shopping options are available at Changi Airport?",
	"How do I get to Jewel Changi Airport from the city?",
	"What restaurants are available at Changi Airport?",
	"What is the Shiseido Forest Valley?",
	"How far is Changi Airport from Singapore city center?",
	"What transportation options are available from Changi Airport?",
}

// Server exposes the question answering and index management API over
// HTTP.
type Server struct {
	echo     *echo.Echo
	addr     string
	answerer sitesage.Answerer
	pipeline *rag.Pipeline
	logger   *slog.Logger
	examples []string
}

// NewServer creates a Server listening on addr. An empty addr falls back
// to DefaultAddr.
func NewServer(addr string, answerer sitesage.Answerer, pipeline *rag.Pipeline, logger *slog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		echo:     echo.New(),
		addr:     addr,
		answerer: answerer,
		pipeline: pipeline,
		logger:   logger,
		examples: DefaultExampleQuestions,
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(s.requestLogger())
	s.registerRoutes()

	return s
}

// Start begins serving and blocks until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/ask", s.handleAsk)
	api.GET("/stats", s.handleStats)
	api.POST("/rebuild", s.handleRebuild)
	api.GET("/example-questions", s.handleExampleQuestions)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			s.logger.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return err
		}
	}
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	IndexUp   bool   `json:"index_ready"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(c echo.Context) error {
	stats, err := s.pipeline.BuildStats(c.Request().Context())
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		IndexUp:   stats.Attached,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

// AskResponse wraps an Answer with the time it was produced.
type AskResponse struct {
	sitesage.Answer
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleAsk(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	answer, err := s.answerer.Answer(c.Request().Context(), req.Question, req.TopK)
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, AskResponse{
		Answer:    *answer,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.pipeline.BuildStats(c.Request().Context())
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// RebuildResponse is the body of a successful POST /api/rebuild.
type RebuildResponse struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
}

func (s *Server) handleRebuild(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.pipeline.Rebuild(ctx); err != nil {
		return s.httpError(err)
	}
	stats, err := s.pipeline.BuildStats(ctx)
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, RebuildResponse{
		Status:    "rebuilt",
		Documents: stats.DocumentCount,
	})
}

// ExampleQuestionsResponse is the body of GET /api/example-questions.
type ExampleQuestionsResponse struct {
	Examples []string `json:"examples"`
	Count    int      `json:"count"`
}

func (s *Server) handleExampleQuestions(c echo.Context) error {
	return c.JSON(http.StatusOK, ExampleQuestionsResponse{
		Examples: s.examples,
		Count:    len(s.examples),
	})
}

// httpError maps domain error codes to HTTP status codes, hiding internal
// detail behind ErrorMessage.
func (s *Server) httpError(err error) error {
	code := sitesage.ErrorCode(err)
	status, ok := errorStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("internal error", "error", err)
	}
	return echo.NewHTTPError(status, sitesage.ErrorMessage(err))
}

var errorStatus = map[string]int{
	sitesage.EINVALID:     http.StatusBadRequest,
	sitesage.ENOTFOUND:    http.StatusNotFound,
	sitesage.ECONFLICT:    http.StatusConflict,
	sitesage.EUNAVAILABLE: http.StatusServiceUnavailable,
	sitesage.EINTERNAL:    http.StatusInternalServerError,
}
