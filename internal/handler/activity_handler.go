package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"flowboard/internal/model"
	"flowboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultActivityLimit = 50
const maxActivityLimit = 200

// ActivityHandler exposes the audit trail read-only; appends happen only
// inside the mutation transactions.
type ActivityHandler struct {
	activityRepo *repository.ActivityRepository
}

func NewActivityHandler(activityRepo *repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activityRepo: activityRepo}
}

type ActivityResponse struct {
	ID        string          `json:"id"`
	BoardID   string          `json:"board_id"`
	CardID    *string         `json:"card_id,omitempty"`
	UserID    *string         `json:"user_id,omitempty"`
	Action    string          `json:"action"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt string          `json:"created_at"`
}

func activityResponse(entry *model.ActivityLog) ActivityResponse {
	resp := ActivityResponse{
		ID:        entry.ID.String(),
		BoardID:   entry.BoardID.String(),
		Action:    string(entry.Action),
		Metadata:  json.RawMessage(entry.Metadata),
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.CardID != nil {
		s := entry.CardID.String()
		resp.CardID = &s
	}
	if entry.UserID != nil {
		s := entry.UserID.String()
		resp.UserID = &s
	}
	return resp
}

// GetByBoardID lists a board's newest activity entries.
func (h *ActivityHandler) GetByBoardID(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		if parsed > maxActivityLimit {
			parsed = maxActivityLimit
		}
		limit = parsed
	}

	entries, err := h.activityRepo.ListByBoard(c.Request.Context(), boardID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	response := make([]ActivityResponse, len(entries))
	for i := range entries {
		response[i] = activityResponse(&entries[i])
	}

	c.JSON(http.StatusOK, response)
}
