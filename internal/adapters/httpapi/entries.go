package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/horas/internal/ports/primary"
)

func (h *Handler) listEntries(c *gin.Context) {
	collaboratorID, err := queryInt64(c, "collaborator")
	if err != nil {
		h.fail(c, err)
		return
	}
	month, err := queryInt(c, "month")
	if err != nil {
		h.fail(c, err)
		return
	}
	limit, err := queryLimit(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	entries, err := h.svc.Entries.ListEntries(c.Request.Context(), primary.EntryFilters{
		CollaboratorID: collaboratorID,
		Month:          month,
		Limit:          limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) submitEntries(c *gin.Context) {
	var req primary.SubmitEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid submission body"))
		return
	}
	resp, err := h.svc.Entries.Submit(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) getEntry(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	entry, err := h.svc.Entries.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) deleteEntry(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Entries.DeleteEntry(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) loadGroup(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	group, err := h.svc.Entries.LoadGroup(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *Handler) reconcileGroup(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req primary.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid group body"))
		return
	}
	req.AnchorID = id

	ctx := c.Request.Context()
	if err := h.svc.Entries.Reconcile(ctx, req); err != nil {
		h.fail(c, err)
		return
	}
	group, err := h.svc.Entries.LoadGroup(ctx, id)
	if err != nil {
		// The anchor itself may have been dropped from the group.
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, group)
}
