package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/usecase/chat"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
	"github.com/citypulse-ai/citypulse/pkg/workflow"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the assistant over HTTP. Every data endpoint goes
// through the same dispatcher the CLI chat uses.
type Server struct {
	echo       *echo.Echo
	dispatcher *chat.UseCase
	advisor    *workflow.Engine
	metrics    *metrics
	addr       string
}

type Option func(*Server)

// WithAddr sets the listen address, default ":8080"
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithAdvisor enables policy advisories on the mood endpoint
func WithAdvisor(engine *workflow.Engine) Option {
	return func(s *Server) { s.advisor = engine }
}

// New creates the HTTP server and wires its routes.
func New(dispatcher *chat.UseCase, opts ...Option) *Server {
	s := &Server{
		dispatcher: dispatcher,
		metrics:    newMetrics(),
		addr:       ":8080",
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				if text, ok := he.Message.(string); ok {
					msg = text
				}
			}
		}
		logging.From(c.Request().Context()).Warn("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"code", code,
			"error", err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]string{"error": msg})
		}
	}

	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	e.POST("/chat", s.handleChat)
	e.GET("/location_mood", s.handleMood)
	e.GET("/best_route", s.handleRoute)
	e.GET("/must_visit_places", s.handlePlaces)

	s.echo = e
	return s
}

// Handler returns the HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run starts the server and blocks until the context is canceled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	logging.From(ctx).Info("http server started", "addr", s.addr)

	select {
	case err := <-errCh:
		return goerr.Wrap(err, "http server failed", goerr.V("addr", s.addr))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shut down http server")
	}
	return nil
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	resp := s.dispatcher.Handle(c.Request().Context(), req.UserID, req.Message)
	s.metrics.observe("/chat", string(resp.Intent))
	return c.JSON(http.StatusOK, resp)
}

type moodResponse struct {
	Location string `json:"location"`
	model.MoodResult
	Advisories []model.Advisory `json:"advisories,omitempty"`
}

func (s *Server) handleMood(c echo.Context) error {
	location := c.QueryParam("location")
	if location == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "location is required")
	}

	ctx := c.Request().Context()
	result := s.dispatcher.Mood(ctx, location)
	s.metrics.observe("/location_mood", string(model.IntentLocationMood))

	resp := moodResponse{
		Location:   model.NormalizeLocation(location),
		MoodResult: result,
	}
	if s.advisor != nil {
		advisories, err := s.advisor.Evaluate(ctx, location, result)
		if err != nil {
			logging.From(ctx).Warn("advisory evaluation failed",
				"location", location, "error", err)
		} else {
			resp.Advisories = advisories
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRoute(c echo.Context) error {
	origin := c.QueryParam("origin")
	destination := c.QueryParam("destination")
	if origin == "" || destination == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "origin and destination are required")
	}

	route, err := s.dispatcher.BestRoute(c.Request().Context(), origin, destination, c.QueryParam("mode"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "route lookup failed")
	}
	s.metrics.observe("/best_route", string(model.IntentBestRoute))
	return c.JSON(http.StatusOK, route)
}

func (s *Server) handlePlaces(c echo.Context) error {
	location := c.QueryParam("location")
	if location == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "location is required")
	}

	limit := 3
	if raw := c.QueryParam("limit"); raw != "" {
		if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
	}

	places, err := s.dispatcher.Places(c.Request().Context(), location, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "place lookup failed")
	}
	s.metrics.observe("/must_visit_places", string(model.IntentPlaces))
	return c.JSON(http.StatusOK, places)
}
