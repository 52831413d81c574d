package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ctxutil"
)

const (
	sessionUserID = "collaborator_id"
	sessionRole   = "role"
)

// requireAuth rejects requests without a session and attaches the
// requester to the request context. The role is re-read on every request
// so demotions and deletions apply to open sessions.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		id, ok := sess.Get(sessionUserID).(int64)
		role, _ := sess.Get(sessionRole).(string)
		if !ok || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}

		ctx := ctxutil.WithRequester(c.Request.Context(), ctxutil.Requester{ID: id, Role: role})
		current, err := h.svc.Collaborators.GetCollaborator(ctx, id)
		if errors.Is(err, apperr.ErrNotFound) {
			sess.Clear()
			_ = sess.Save()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		if err != nil {
			h.fail(c, err)
			c.Abort()
			return
		}
		if current.Role != role {
			sess.Set(sessionRole, current.Role)
			_ = sess.Save()
		}

		ctx = ctxutil.WithRequester(c.Request.Context(), ctxutil.Requester{ID: id, Role: current.Role})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requestLogger logs one line per request.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if r, ok := ctxutil.RequesterFromContext(c.Request.Context()); ok {
			attrs = append(attrs, "requester", r.ID)
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request failed", attrs...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request rejected", attrs...)
		default:
			log.Debug("request served", attrs...)
		}
	}
}
