// Package httpapi exposes the primary ports as a JSON API served by gin.
// Authentication is a signed cookie session carrying the collaborator id
// and role; every authenticated request runs with that requester in its
// context.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/example/horas/internal/ports/primary"
)

const sessionName = "horas_session"

// Services bundles the primary ports served over HTTP.
type Services struct {
	Entries       primary.EntryService
	Delegations   primary.DelegationService
	Catalog       primary.CatalogService
	Collaborators primary.CollaboratorService
	Reports       primary.ReportService
}

// Handler holds the services behind the routes.
type Handler struct {
	svc Services
	log *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc Services, sessionSecret string, log *slog.Logger) *gin.Engine {
	h := &Handler{svc: svc, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode, MaxAge: 12 * 60 * 60})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)

	auth := r.Group("/")
	auth.Use(h.requireAuth())

	auth.GET("/me", h.me)

	// ENTRIES
	auth.GET("/entries", h.listEntries)
	auth.POST("/entries", h.submitEntries)
	auth.GET("/entries/:id", h.getEntry)
	auth.DELETE("/entries/:id", h.deleteEntry)
	auth.GET("/entries/:id/group", h.loadGroup)
	auth.PUT("/entries/:id/group", h.reconcileGroup)

	// DELEGATIONS
	auth.GET("/delegations", h.listDelegations)
	auth.POST("/delegations", h.createDelegation)
	auth.GET("/delegations/:id", h.getDelegation)
	auth.PUT("/delegations/:id", h.updateDelegation)
	auth.DELETE("/delegations/:id", h.deleteDelegation)
	auth.POST("/delegations/:id/status", h.changeDelegationStatus)

	// CATALOG
	// Codes may contain "/", so they travel in the query string or body.
	auth.GET("/plan-items", h.listPlanItems)
	auth.POST("/plan-items", h.createPlanItem)
	auth.GET("/plan-items/lookup", h.getPlanItem)
	auth.PUT("/plan-items", h.updatePlanItem)
	auth.DELETE("/plan-items", h.deletePlanItem)
	auth.POST("/plan-items/rename", h.renamePlanItem)

	auth.GET("/work-orders", h.listWorkOrders)
	auth.POST("/work-orders", h.createWorkOrder)
	auth.GET("/work-orders/lookup", h.getWorkOrder)
	auth.PUT("/work-orders", h.updateWorkOrder)
	auth.DELETE("/work-orders", h.deleteWorkOrder)
	auth.POST("/work-orders/rename", h.renameWorkOrder)

	// COLLABORATORS
	auth.GET("/collaborators", h.listCollaborators)
	auth.POST("/collaborators", h.createCollaborator)
	auth.GET("/collaborators/:id", h.getCollaborator)
	auth.PUT("/collaborators/:id", h.updateCollaborator)
	auth.DELETE("/collaborators/:id", h.deleteCollaborator)

	// REPORTS
	auth.GET("/reports/totals", h.reportTotals)
	auth.GET("/reports/monthly", h.reportMonthly)
	auth.GET("/reports/plan-progress", h.reportPlanProgress)
	auth.GET("/reports/overview", h.reportOverview)

	return r
}
