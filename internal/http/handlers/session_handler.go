// README: Session handlers; state snapshots and document-candidate injection.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripcover/internal/modules/dialogue"
	"tripcover/internal/modules/extract"
)

type SessionHandler struct {
	dialogue *dialogue.Service
}

func NewSessionHandler(dialogueSvc *dialogue.Service) *SessionHandler {
	return &SessionHandler{dialogue: dialogueSvc}
}

// Get handles GET /api/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	st, err := h.dialogue.GetState(ctx, c.Param("id"))
	if err != nil {
		writeDialogueError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, st)
}

type documentReq struct {
	UserID          string `json:"user_id"`
	Destination     string `json:"destination"`
	DepartureDate   string `json:"departure_date"` // ISO date
	ReturnDate      string `json:"return_date"`    // ISO date
	TravelerAges    []int  `json:"traveler_ages"`
	AdventureSports *bool  `json:"adventure_sports"`
}

// Documents handles POST /api/sessions/:id/documents. Pre-extracted document
// candidates (OCR, itinerary parsing) flow through the same merge path as a
// regular message.
func (h *SessionHandler) Documents(c *gin.Context) {
	var req documentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	var upd extract.Update
	if req.Destination != "" {
		upd.Destination = &req.Destination
	}
	if t, err := time.Parse("2006-01-02", req.DepartureDate); err == nil {
		upd.DepartureDate = &t
	}
	if t, err := time.Parse("2006-01-02", req.ReturnDate); err == nil {
		upd.ReturnDate = &t
	}
	for _, a := range req.TravelerAges {
		if a >= 0 && a <= 115 {
			upd.TravelerAges = append(upd.TravelerAges, a)
		}
	}
	if req.AdventureSports != nil {
		v := extract.TriNo
		if *req.AdventureSports {
			v = extract.TriYes
		}
		upd.AdventureSports = &v
	}
	if upd.Empty() {
		writeError(c, http.StatusBadRequest, "document contained no usable fields")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), turnTimeout)
	defer cancel()

	result, err := h.dialogue.HandleDocument(ctx, c.Param("id"), req.UserID, upd)
	if err != nil {
		writeDialogueError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}
