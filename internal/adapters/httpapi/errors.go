package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/horas/internal/apperr"
)

type errorBody struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind,omitempty"`
	Rows  []string `json:"rows,omitempty"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.ErrValidation:
		return http.StatusBadRequest
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrPermission:
		return http.StatusForbidden
	case apperr.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as JSON. Unclassified errors are not echoed to the client.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	if kind := apperr.KindOf(err); kind != nil {
		body.Kind = kind.Error()
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		for _, r := range appErr.Rows {
			body.Rows = append(body.Rows, r.String())
		}
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request error", "path", c.FullPath(), "error", err)
		body = errorBody{Error: "internal error"}
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(msg string) error {
	return apperr.Validation(apperr.ErrMissingField, "%s", msg)
}
