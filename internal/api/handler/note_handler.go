package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notekeeper/notes-api/internal/api/metrics"
	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

// NoteHandler handles HTTP requests for the authenticated user's notes.
// Historical route name: the API exposes notes under /api/tasks.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// List handles GET /api/tasks.
//
// @Summary      List the user's notes
// @Tags         notes
// @Produce      json
// @Success      200  {array}  noteResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/tasks [get]
func (h *NoteHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	notes, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toNoteResponses(notes))
}

// GetByID handles GET /api/tasks/:id.
//
// @Summary      Get one note by id
// @Tags         notes
// @Produce      json
// @Param        id   path      string  true  "Note id"
// @Success      200  {object}  noteResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [get]
func (h *NoteHandler) GetByID(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	note, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "note not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, toNoteResponse(*note))
}

// Create handles POST /api/tasks.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        body  body      createNoteRequest  true  "Note"
// @Success      201   {object}  noteResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks [post]
func (h *NoteHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	created, err := h.service.Create(c.Request().Context(), userID, domain.Note{
		ID:        req.ID,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "user not found"})
		}
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toNoteResponse(*created))
}

// Update handles PUT /api/tasks/:id. The existing note is fetched first so a
// missing note fails with 404; a note deleted between that check and the
// patch is a benign race and the patch silently matches nothing.
//
// @Summary      Update a note's title and body
// @Tags         notes
// @Accept       json
// @Param        id    path  string             true  "Note id"
// @Param        body  body  updateNoteRequest  true  "New title and body"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [put]
func (h *NoteHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	noteID := c.Param("id")

	var req updateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	if _, err := h.service.Get(c.Request().Context(), userID, noteID); err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "note not found"})
		}
		return err
	}

	if err := h.service.Update(c.Request().Context(), userID, noteID, req.Title, req.Body); err != nil {
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues("update").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/tasks/:id. Like Update, existence is checked
// first and a concurrent removal is swallowed.
//
// @Summary      Delete a note
// @Tags         notes
// @Param        id  path  string  true  "Note id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	noteID := c.Param("id")

	if _, err := h.service.Get(c.Request().Context(), userID, noteID); err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "note not found"})
		}
		return err
	}

	if err := h.service.Remove(c.Request().Context(), userID, noteID); err != nil {
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
