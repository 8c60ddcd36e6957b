// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcover/internal/modules/dialogue"
	"tripcover/internal/modules/handoff"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeDialogueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dialogue.ErrBadSession):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, dialogue.ErrSessionNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, handoff.ErrRejected):
		// Pending handoff: the caller may replay the turn.
		writeJSON(c, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Retryable: true})
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
