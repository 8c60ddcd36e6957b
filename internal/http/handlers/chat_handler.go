// README: Chat handler; the single turn-processing entry point over HTTP.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripcover/internal/modules/dialogue"
)

// turnTimeout bounds one full turn including every collaborator call.
const turnTimeout = 30 * time.Second

type ChatHandler struct {
	dialogue *dialogue.Service
}

func NewChatHandler(dialogueSvc *dialogue.Service) *ChatHandler {
	return &ChatHandler{dialogue: dialogueSvc}
}

type turnReq struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

type turnResp struct {
	SessionID     string                      `json:"session_id"`
	Reply         string                      `json:"reply"`
	RequiresHuman bool                        `json:"requires_human"`
	State         *dialogue.ConversationState `json:"state"`
}

// Turn handles POST /api/chat/turn.
func (h *ChatHandler) Turn(c *gin.Context) {
	var req turnReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}
	// An absent session id opens a new conversation.
	if req.SessionID == "" {
		req.SessionID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), turnTimeout)
	defer cancel()

	result, err := h.dialogue.HandleTurn(ctx, req.SessionID, req.UserID, req.Message)
	if err != nil {
		writeDialogueError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, turnResp{
		SessionID:     req.SessionID,
		Reply:         result.Reply,
		RequiresHuman: result.RequiresHuman,
		State:         result.State,
	})
}
