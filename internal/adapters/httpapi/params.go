package httpapi

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// defaultLimit caps listings when no limit is given.
const defaultLimit = 100

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id " + strconv.Quote(c.Param("id")))
	}
	return id, nil
}

func queryInt64(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequest("invalid " + name + " " + strconv.Quote(raw))
	}
	return v, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	v, err := queryInt64(c, name)
	return int(v), err
}

// queryLimit reads ?limit=; "all" means no limit.
func queryLimit(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	switch {
	case raw == "":
		return defaultLimit, nil
	case strings.EqualFold(raw, "all"):
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, badRequest("invalid limit " + strconv.Quote(raw))
	}
	return n, nil
}
