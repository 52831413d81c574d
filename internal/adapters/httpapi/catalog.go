package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/horas/internal/ports/primary"
)

type renameBody struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func codeParam(c *gin.Context) (string, error) {
	code := c.Query("code")
	if code == "" {
		return "", badRequest("code query parameter is required")
	}
	return code, nil
}

// ============================================================================
// Plan items
// ============================================================================

func (h *Handler) listPlanItems(c *gin.Context) {
	items, err := h.svc.Catalog.ListPlanItems(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) createPlanItem(c *gin.Context) {
	var req primary.PlanItem
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid plan item body"))
		return
	}
	p, err := h.svc.Catalog.CreatePlanItem(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) getPlanItem(c *gin.Context) {
	code, err := codeParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.svc.Catalog.GetPlanItem(c.Request.Context(), code)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updatePlanItem(c *gin.Context) {
	var req primary.PlanItem
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		h.fail(c, badRequest("invalid plan item body"))
		return
	}
	p, err := h.svc.Catalog.UpdatePlanItem(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePlanItem(c *gin.Context) {
	code, err := codeParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Catalog.DeletePlanItem(c.Request.Context(), code); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) renamePlanItem(c *gin.Context) {
	var body renameBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, badRequest("invalid rename body"))
		return
	}
	if err := h.svc.Catalog.RenamePlanItemCode(c.Request.Context(), body.From, body.To); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// Work orders
// ============================================================================

func (h *Handler) listWorkOrders(c *gin.Context) {
	orders, err := h.svc.Catalog.ListWorkOrders(c.Request.Context(), c.Query("plan_item"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) createWorkOrder(c *gin.Context) {
	var req primary.WorkOrder
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("invalid work order body"))
		return
	}
	w, err := h.svc.Catalog.CreateWorkOrder(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *Handler) getWorkOrder(c *gin.Context) {
	code, err := codeParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	w, err := h.svc.Catalog.GetWorkOrder(c.Request.Context(), code)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *Handler) updateWorkOrder(c *gin.Context) {
	var req primary.WorkOrder
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		h.fail(c, badRequest("invalid work order body"))
		return
	}
	w, err := h.svc.Catalog.UpdateWorkOrder(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *Handler) deleteWorkOrder(c *gin.Context) {
	code, err := codeParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Catalog.DeleteWorkOrder(c.Request.Context(), code); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) renameWorkOrder(c *gin.Context) {
	var body renameBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, badRequest("invalid rename body"))
		return
	}
	if err := h.svc.Catalog.RenameWorkOrderCode(c.Request.Context(), body.From, body.To); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
