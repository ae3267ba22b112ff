package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fkoidl/heimdeck/internal/coffee"
	"github.com/fkoidl/heimdeck/pkg/notify"
)

func (s *Server) handleCoffeeList(c echo.Context) error {
	return c.JSON(http.StatusOK, s.coffees.All())
}

func (s *Server) handleCoffeeStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.coffees.Stats())
}

func (s *Server) handleCoffeeCreate(c echo.Context) error {
	var entry coffee.Entry
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid coffee payload")
	}

	created, err := s.coffees.Add(entry)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.emitCoffeeEvent(c, "created", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleCoffeeUpdate(c echo.Context) error {
	var entry coffee.Entry
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid coffee payload")
	}
	entry.ID = c.Param("id")

	if err := s.coffees.Update(entry); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	s.emitCoffeeEvent(c, "updated", entry.ID)
	return c.JSON(http.StatusOK, entry)
}

func (s *Server) handleCoffeeDelete(c echo.Context) error {
	id := c.Param("id")
	if !s.coffees.Delete(id) {
		return echo.NewHTTPError(http.StatusNotFound, "entry not found")
	}
	s.emitCoffeeEvent(c, "deleted", id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCoffeeSyncSave(c echo.Context) error {
	ok := s.syncer.Save(c.Request().Context(), s.coffees.All())
	return c.JSON(http.StatusOK, map[string]bool{"success": ok})
}

func (s *Server) handleCoffeeSyncLoad(c echo.Context) error {
	entries, ok := s.syncer.Load(c.Request().Context())
	if ok {
		s.coffees.Replace(entries)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": ok,
		"entries": len(entries),
	})
}

func (s *Server) emitCoffeeEvent(c echo.Context, action, id string) {
	s.events.Emit(c.Request().Context(), notify.Event{
		Kind:    notify.KindCoffeeMutation,
		Subject: id,
		Detail:  map[string]any{"action": action},
	})
}
