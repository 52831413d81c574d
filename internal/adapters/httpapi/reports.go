package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/horas/internal/ports/primary"
)

// reportRequest reads the shared report query parameters. Reports are
// not capped unless a limit is given.
func reportRequest(c *gin.Context) (primary.ReportRequest, error) {
	req := primary.ReportRequest{
		Dimension:     c.DefaultQuery("dimension", "collaborator"),
		PlanItemCode:  c.Query("plan_item"),
		WorkOrderCode: c.Query("work_order"),
	}
	var err error
	if req.CollaboratorID, err = queryInt64(c, "collaborator"); err != nil {
		return req, err
	}
	if req.Month, err = queryInt(c, "month"); err != nil {
		return req, err
	}
	if c.Query("limit") != "" {
		if req.Limit, err = queryLimit(c); err != nil {
			return req, err
		}
	}
	return req, nil
}

func (h *Handler) reportTotals(c *gin.Context) {
	req, err := reportRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	rows, err := h.svc.Reports.Totals(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) reportMonthly(c *gin.Context) {
	req, err := reportRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	report, err := h.svc.Reports.Monthly(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) reportPlanProgress(c *gin.Context) {
	rows, err := h.svc.Reports.PlanProgress(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) reportOverview(c *gin.Context) {
	overview, err := h.svc.Reports.Overview(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
