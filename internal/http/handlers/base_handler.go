// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridepool/internal/ai"
	"ridepool/internal/modules/aiusage"
	"ridepool/internal/modules/run"
	"ridepool/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts the run id alphabet (uuid) up to 64 chars.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidParameter), errors.Is(err, types.ErrInvalidState):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, run.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, run.ErrInvalidState), errors.Is(err, run.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ai.ErrNotConfigured):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
