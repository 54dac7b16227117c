package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/validation"
)

// bindFields decodes a JSON object keeping numbers as json.Number so the
// validator sees exactly what the client sent.
func bindFields(c *gin.Context) (validation.Fields, bool) {
	var fields validation.Fields
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil || fields == nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return nil, false
	}
	return fields, true
}

func writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, errorResponse{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, domain.ErrDuplicateKey):
		c.JSON(http.StatusConflict, errorResponse{Error: "a project with this id already exists"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "project not found"})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "storage error"})
	}
}

func (h *Handler) create(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), fields)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items := h.svc.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, ok := h.svc.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	found, err := h.svc.Update(c.Request.Context(), id, fields)
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		writeError(c, domain.ErrNotFound)
		return
	}

	p, ok := h.svc.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		writeError(c, domain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) simulate(c *gin.Context) {
	res, ok := h.svc.Simulate(c.Request.Context(), c.Param("id"))
	if !ok {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": res})
}
