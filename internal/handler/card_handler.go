package handler

import (
	"errors"
	"net/http"
	"time"

	"flowboard/internal/middleware"
	"flowboard/internal/model"
	"flowboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardRepo   *repository.CardRepository
	columnRepo *repository.ColumnRepository
	userRepo   *repository.UserRepository
}

func NewCardHandler(cardRepo *repository.CardRepository, columnRepo *repository.ColumnRepository, userRepo *repository.UserRepository) *CardHandler {
	return &CardHandler{
		cardRepo:   cardRepo,
		columnRepo: columnRepo,
		userRepo:   userRepo,
	}
}

type CreateCardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ColumnID    string `json:"column_id" binding:"required"`
	DueDate     string `json:"due_date"`
}

// UpdateCardRequest uses pointer fields for partial updates. A column_id or
// position routes the request through the move path; the other fields are
// plain scalar updates, each audited as its own card.updated entry.
type UpdateCardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`    // RFC3339; empty string clears
	AssignedTo  *string `json:"assigned_to"` // user id; empty string clears
	ColumnID    *string `json:"column_id"`
	Position    *int    `json:"position"`
}

// ReorderCardsRequest carries the complete ordered list of the column's card
// ids; position i is implied by list index i.
type ReorderCardsRequest struct {
	CardIDs []string `json:"card_ids" binding:"required"`
}

type CardResponse struct {
	ID          string  `json:"id"`
	ColumnID    string  `json:"column_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
	CreatedBy   string  `json:"created_by"`
	DueDate     *string `json:"due_date,omitempty"`
	Position    int     `json:"position"`
}

func cardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:          card.ID.String(),
		ColumnID:    card.ColumnID.String(),
		Title:       card.Title,
		Description: card.Description,
		CreatedBy:   card.CreatedBy.String(),
		Position:    card.Position,
	}
	if card.AssignedTo != nil {
		s := card.AssignedTo.String()
		resp.AssignedTo = &s
	}
	if card.DueDate != nil {
		s := card.DueDate.Format(time.RFC3339)
		resp.DueDate = &s
	}
	return resp
}

func (h *CardHandler) Create(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	columnID, err := uuid.Parse(req.ColumnID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	card := &model.Card{
		ColumnID:    columnID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   authenticatedUserID,
	}

	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date format"})
			return
		}
		card.DueDate = &due
	}

	if err := h.cardRepo.Create(c.Request.Context(), card); err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create card"})
		return
	}

	c.JSON(http.StatusCreated, cardResponse(card))
}

func (h *CardHandler) GetByID(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

func (h *CardHandler) GetByColumnID(c *gin.Context) {
	columnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	cards, err := h.cardRepo.GetByColumnID(c.Request.Context(), columnID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}

	c.JSON(http.StatusOK, response)
}

// Update applies scalar field changes and, when column_id or position is
// present, relocates the card through the move path. Each changed field is
// audited; a move appends its own card.moved entry.
func (h *CardHandler) Update(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	column, err := h.columnRepo.GetByID(c.Request.Context(), card.ColumnID)
	if err != nil || column == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return
	}

	entries, err := h.applyFieldChanges(c, card, &req, column.BoardID, authenticatedUserID)
	if err != nil {
		// applyFieldChanges has already written the response.
		return
	}

	if len(entries) > 0 {
		if err := h.cardRepo.Update(c.Request.Context(), card, entries); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update card"})
			return
		}
	}

	if req.ColumnID != nil || req.Position != nil {
		targetColumnID := card.ColumnID
		if req.ColumnID != nil {
			targetColumnID, err = uuid.Parse(*req.ColumnID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
				return
			}
		}

		targetPosition := card.Position
		if req.Position != nil {
			targetPosition = *req.Position
		}

		if err := h.cardRepo.Move(c.Request.Context(), cardID, targetColumnID, targetPosition, authenticatedUserID); err != nil {
			switch {
			case errors.Is(err, repository.ErrCardNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			case errors.Is(err, repository.ErrColumnNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Target column not found"})
			case errors.Is(err, repository.ErrDifferentBoard):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move card to a column from another board"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move card"})
			}
			return
		}
	}

	updated, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return
	}

	c.JSON(http.StatusOK, cardResponse(updated))
}

// applyFieldChanges mutates card in place and returns one card.updated entry
// per changed field. On a bad request it writes the error response itself and
// returns a non-nil error.
func (h *CardHandler) applyFieldChanges(c *gin.Context, card *model.Card, req *UpdateCardRequest, boardID, actorID uuid.UUID) ([]*model.ActivityLog, error) {
	var entries []*model.ActivityLog

	if req.Title != nil && *req.Title != card.Title {
		entries = append(entries, model.NewCardUpdatedEntry(boardID, card.ID, actorID, "title", card.Title, *req.Title))
		card.Title = *req.Title
	}

	if req.Description != nil && *req.Description != card.Description {
		entries = append(entries, model.NewCardUpdatedEntry(boardID, card.ID, actorID, "description", card.Description, *req.Description))
		card.Description = *req.Description
	}

	if req.DueDate != nil {
		oldValue := ""
		if card.DueDate != nil {
			oldValue = card.DueDate.Format(time.RFC3339)
		}
		if *req.DueDate == "" {
			if card.DueDate != nil {
				entries = append(entries, model.NewCardUpdatedEntry(boardID, card.ID, actorID, "due_date", oldValue, ""))
				card.DueDate = nil
			}
		} else {
			due, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date format"})
				return nil, err
			}
			if card.DueDate == nil || !card.DueDate.Equal(due) {
				entries = append(entries, model.NewCardUpdatedEntry(boardID, card.ID, actorID, "due_date", oldValue, due.Format(time.RFC3339)))
				card.DueDate = &due
			}
		}
	}

	if req.AssignedTo != nil {
		oldValue := ""
		if card.AssignedTo != nil {
			oldValue = card.AssignedTo.String()
		}
		if *req.AssignedTo == "" {
			if card.AssignedTo != nil {
				entries = append(entries, model.NewCardUpdatedEntry(boardID, card.ID, actorID, "assigned_to", oldValue, ""))
				card.AssignedTo = nil
			}
		} else {
			assigneeID, err := uuid.Parse(*req.AssignedTo)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
				return nil, err
			}
			assignee, err := h.userRepo.GetByID(c.Request.Context(), assigneeID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
				return nil, err
			}
			if assignee == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return nil, errors.New("assignee not found")
			}
			if card.AssignedTo == nil || *card.AssignedTo != assigneeID {
				entries = append(entries, model.NewCardUpdatedEntry(boardID, card.ID, actorID, "assigned_to", oldValue, assigneeID.String()))
				card.AssignedTo = &assigneeID
			}
		}
	}

	return entries, nil
}

func (h *CardHandler) Delete(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	if err := h.cardRepo.Delete(c.Request.Context(), cardID, authenticatedUserID); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete card"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}

// ReorderCards applies a full ordering of the column's cards. The request
// must list every card of the column exactly once.
func (h *CardHandler) ReorderCards(c *gin.Context) {
	columnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	var req ReorderCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	orderedIDs := make([]uuid.UUID, len(req.CardIDs))
	for i, raw := range req.CardIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
			return
		}
		orderedIDs[i] = id
	}

	if err := h.cardRepo.Reorder(c.Request.Context(), columnID, orderedIDs); err != nil {
		if errors.Is(err, repository.ErrInvalidOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder cards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cards reordered successfully"})
}

// AddLabel attaches a label to a card
func (h *CardHandler) AddLabel(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	labelID, err := uuid.Parse(c.Param("label_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid label ID format"})
		return
	}

	if _, err := h.cardRepo.GetByID(c.Request.Context(), cardID); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return
	}

	if err := h.cardRepo.AddLabel(c.Request.Context(), cardID, labelID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add label to card"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Label added to card successfully"})
}

// RemoveLabel detaches a label from a card
func (h *CardHandler) RemoveLabel(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	labelID, err := uuid.Parse(c.Param("label_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid label ID format"})
		return
	}

	if err := h.cardRepo.RemoveLabel(c.Request.Context(), cardID, labelID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove label from card"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Label removed from card successfully"})
}
