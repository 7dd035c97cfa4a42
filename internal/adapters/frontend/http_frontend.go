package frontend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mikey/llm-scam-shield/internal/adapters/history"
	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// AnalyzeRequest is the body of POST /api/v1/analyze.
// Text must be present but may be empty.
type AnalyzeRequest struct {
	Text *string `json:"text" validate:"required,max=100000"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPFrontend serves the JSON API
type HTTPFrontend struct {
	echo       *echo.Echo
	checker    *core.MessageChecker
	validate   *validator.Validate
	listenAddr string
	logger     *zap.Logger
}

// NewHTTPFrontend creates a new HTTP frontend and registers its routes
func NewHTTPFrontend(checker *core.MessageChecker, validate *validator.Validate, listenAddr string, logger *zap.Logger) *HTTPFrontend {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("HTTP request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))

	f := &HTTPFrontend{
		echo:       e,
		checker:    checker,
		validate:   validate,
		listenAddr: listenAddr,
		logger:     logger,
	}

	e.GET("/health", f.healthCheck)
	api := e.Group("/api/v1")
	api.POST("/analyze", f.analyze)
	api.GET("/history", f.listHistory)
	api.GET("/history/:id", f.getHistory)
	api.DELETE("/history/:id", f.deleteHistory)

	return f
}

// Handler exposes the router for tests and embedding
func (f *HTTPFrontend) Handler() http.Handler {
	return f.echo
}

// Start starts the HTTP server in the background
func (f *HTTPFrontend) Start() error {
	f.logger.Info("HTTP frontend starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.echo.Start(f.listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the HTTP server down
func (f *HTTPFrontend) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.echo.Shutdown(ctx)
}

func (f *HTTPFrontend) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "llm-scam-shield",
	})
}

func (f *HTTPFrontend) analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
	}
	if err := f.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
	}

	result := f.checker.Check(c.Request().Context(), *req.Text)
	return c.JSON(http.StatusOK, result)
}

func (f *HTTPFrontend) listHistory(c echo.Context) error {
	repo := f.checker.History()
	if repo == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "History is disabled"})
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
		}
		limit = min(n, maxHistoryLimit)
	}

	results, err := repo.List(c.Request().Context(), limit)
	if err != nil {
		f.logger.Error("Failed to list history", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list history"})
	}
	return c.JSON(http.StatusOK, results)
}

func (f *HTTPFrontend) getHistory(c echo.Context) error {
	repo := f.checker.History()
	if repo == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "History is disabled"})
	}

	result, err := repo.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return f.historyError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (f *HTTPFrontend) deleteHistory(c echo.Context) error {
	repo := f.checker.History()
	if repo == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "History is disabled"})
	}

	if err := repo.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return f.historyError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (f *HTTPFrontend) historyError(c echo.Context, err error) error {
	if errors.Is(err, history.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Analysis not found"})
	}
	f.logger.Error("History lookup failed", zap.Error(err), zap.String("id", c.Param("id")))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "History lookup failed"})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	switch verrs[0].Tag() {
	case "required":
		return "text is required"
	case "max":
		return "text exceeds the maximum length of 100000 characters"
	default:
		return "Invalid request"
	}
}
