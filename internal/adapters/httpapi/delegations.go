package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/horas/internal/ports/primary"
)

func (h *Handler) listDelegations(c *gin.Context) {
	collaboratorID, err := queryInt64(c, "collaborator")
	if err != nil {
		h.fail(c, err)
		return
	}
	limit, err := queryLimit(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	delegations, err := h.svc.Delegations.ListDelegations(c.Request.Context(), primary.DelegationFilters{
		CollaboratorID: collaboratorID,
		Status:         c.Query("status"),
		Limit:          limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, delegations)
}

func (h *Handler) createDelegation(c *gin.Context) {
	var req primary.CreateDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid delegation body"))
		return
	}
	d, err := h.svc.Delegations.CreateDelegation(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) getDelegation(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	detail, err := h.svc.Delegations.GetDelegation(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) updateDelegation(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req primary.UpdateDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid delegation body"))
		return
	}
	req.ID = id

	d, err := h.svc.Delegations.UpdateDelegation(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) deleteDelegation(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Delegations.DeleteDelegation(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) changeDelegationStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req primary.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid status body"))
		return
	}
	req.ID = id

	d, err := h.svc.Delegations.ChangeStatus(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
