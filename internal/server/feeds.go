package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fkoidl/heimdeck/pkg/notify"
)

// feedGroupHandler serves the merged records of one source group.
func (s *Server) feedGroupHandler(group string) echo.HandlerFunc {
	return func(c echo.Context) error {
		count := countParam(c)
		sources := s.catalog.Group(group)
		if len(sources) == 0 {
			return echo.NewHTTPError(http.StatusNotFound, "unknown feed group")
		}

		records := s.pipeline.FetchAll(c.Request().Context(), sources, count, count)

		s.events.Emit(c.Request().Context(), notify.Event{
			Kind:   notify.KindFeedRefresh,
			Source: group,
			Detail: map[string]any{"records": len(records)},
		})
		return c.JSON(http.StatusOK, records)
	}
}

func (s *Server) handleRugbyCalendar(c echo.Context) error {
	return c.JSON(http.StatusOK, s.calendar.Fixtures(c.Request().Context()))
}

func (s *Server) handleWeatherCurrent(c echo.Context) error {
	report, err := s.weather.Fetch(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, report.Current)
}

func (s *Server) handleWeatherForecast(c echo.Context) error {
	report, err := s.weather.Fetch(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}
