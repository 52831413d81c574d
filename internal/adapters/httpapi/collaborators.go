package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/horas/internal/ports/primary"
)

func (h *Handler) listCollaborators(c *gin.Context) {
	list, err := h.svc.Collaborators.ListCollaborators(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createCollaborator(c *gin.Context) {
	var req primary.CreateCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid collaborator body"))
		return
	}
	created, err := h.svc.Collaborators.CreateCollaborator(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) getCollaborator(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	collaborator, err := h.svc.Collaborators.GetCollaborator(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, collaborator)
}

func (h *Handler) updateCollaborator(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req primary.UpdateCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid collaborator body"))
		return
	}
	req.ID = id

	updated, err := h.svc.Collaborators.UpdateCollaborator(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteCollaborator(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Collaborators.DeleteCollaborator(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
