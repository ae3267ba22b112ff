// Package server exposes the dashboard HTTP API.
package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fkoidl/heimdeck/internal/coffee"
	"github.com/fkoidl/heimdeck/internal/feed"
	"github.com/fkoidl/heimdeck/internal/logger"
	"github.com/fkoidl/heimdeck/internal/rugby"
	"github.com/fkoidl/heimdeck/internal/todo"
	"github.com/fkoidl/heimdeck/internal/weather"
	"github.com/fkoidl/heimdeck/pkg/notify"
)

const (
	defaultFeedCount = 10
	maxFeedCount     = 50
)

// Server wires the dashboard services into an echo router.
type Server struct {
	echo     *echo.Echo
	pipeline *feed.Pipeline
	catalog  *feed.Catalog
	weather  *weather.Service
	calendar *rugby.Calendar
	todos    *todo.Store
	coffees  *coffee.Store
	syncer   *coffee.Syncer
	events   *notify.Dispatcher
	log      logger.Logger
}

// New builds the server and registers all routes.
func New(pipeline *feed.Pipeline, catalog *feed.Catalog, w *weather.Service, cal *rugby.Calendar,
	todos *todo.Store, coffees *coffee.Store, syncer *coffee.Syncer,
	events *notify.Dispatcher, log logger.Logger) *Server {

	if log == nil {
		log = logger.NopLogger{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:     e,
		pipeline: pipeline,
		catalog:  catalog,
		weather:  w,
		calendar: cal,
		todos:    todos,
		coffees:  coffees,
		syncer:   syncer,
		events:   events,
		log:      log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.GET("/news", s.feedGroupHandler(feed.GroupNews))
	api.GET("/gamedev", s.feedGroupHandler(feed.GroupGameDev))
	api.GET("/reviews", s.feedGroupHandler(feed.GroupReviews))
	api.GET("/rugby/news", s.feedGroupHandler(feed.GroupRugbyNews))
	api.GET("/rugby/calendar", s.handleRugbyCalendar)

	api.GET("/weather/current", s.handleWeatherCurrent)
	api.GET("/weather/forecast", s.handleWeatherForecast)

	api.GET("/todos", s.handleTodoList)
	api.GET("/todos/stats", s.handleTodoStats)
	api.POST("/todos", s.handleTodoCreate)
	api.PUT("/todos/:id", s.handleTodoUpdate)
	api.POST("/todos/:id/toggle", s.handleTodoToggle)
	api.DELETE("/todos/:id", s.handleTodoDelete)

	api.GET("/coffee", s.handleCoffeeList)
	api.GET("/coffee/stats", s.handleCoffeeStats)
	api.POST("/coffee", s.handleCoffeeCreate)
	api.PUT("/coffee/:id", s.handleCoffeeUpdate)
	api.DELETE("/coffee/:id", s.handleCoffeeDelete)
	api.POST("/coffee/sync/save", s.handleCoffeeSyncSave)
	api.POST("/coffee/sync/load", s.handleCoffeeSyncLoad)

	s.echo.GET("/healthz", s.handleHealth)
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// countParam parses the count query parameter, clamped to the allowed range.
func countParam(c echo.Context) int {
	raw := c.QueryParam("count")
	if raw == "" {
		return defaultFeedCount
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultFeedCount
	}
	if n > maxFeedCount {
		return maxFeedCount
	}
	return n
}
