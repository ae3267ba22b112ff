package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fkoidl/heimdeck/internal/todo"
	"github.com/fkoidl/heimdeck/pkg/notify"
)

func (s *Server) handleTodoList(c echo.Context) error {
	switch c.QueryParam("filter") {
	case "active":
		return c.JSON(http.StatusOK, s.todos.Active())
	case "completed":
		return c.JSON(http.StatusOK, s.todos.Completed())
	case "overdue":
		return c.JSON(http.StatusOK, s.todos.Overdue())
	default:
		return c.JSON(http.StatusOK, s.todos.All())
	}
}

func (s *Server) handleTodoStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.todos.Stats())
}

func (s *Server) handleTodoCreate(c echo.Context) error {
	var item todo.Item
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid todo payload")
	}
	if item.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	created := s.todos.Add(item)
	s.emitTodoEvent(c, "created", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleTodoUpdate(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid todo id")
	}
	var item todo.Item
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid todo payload")
	}
	item.ID = id

	if !s.todos.Update(item) {
		return echo.NewHTTPError(http.StatusNotFound, "todo not found")
	}
	updated, _ := s.todos.Get(id)
	s.emitTodoEvent(c, "updated", id)
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleTodoToggle(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid todo id")
	}
	if !s.todos.ToggleComplete(id) {
		return echo.NewHTTPError(http.StatusNotFound, "todo not found")
	}
	toggled, _ := s.todos.Get(id)
	s.emitTodoEvent(c, "toggled", id)
	return c.JSON(http.StatusOK, toggled)
}

func (s *Server) handleTodoDelete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid todo id")
	}
	if !s.todos.Delete(id) {
		return echo.NewHTTPError(http.StatusNotFound, "todo not found")
	}
	s.emitTodoEvent(c, "deleted", id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) emitTodoEvent(c echo.Context, action string, id int) {
	s.events.Emit(c.Request().Context(), notify.Event{
		Kind:    notify.KindTodoMutation,
		Subject: strconv.Itoa(id),
		Detail:  map[string]any{"action": action},
	})
}
