package httpapi

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/example/horas/internal/ctxutil"
)

type loginForm struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, badRequest("invalid login form"))
		return
	}

	collaborator, err := h.svc.Collaborators.Login(c.Request.Context(), form.Login, form.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Set(sessionUserID, collaborator.ID)
	sess.Set(sessionRole, collaborator.Role)
	if err := sess.Save(); err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info("collaborator logged in", "collaborator", collaborator.ID)
	c.JSON(http.StatusOK, collaborator)
}

func (h *Handler) logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	r, _ := ctxutil.RequesterFromContext(c.Request.Context())
	collaborator, err := h.svc.Collaborators.GetCollaborator(c.Request.Context(), r.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, collaborator)
}
