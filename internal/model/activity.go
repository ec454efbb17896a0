package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActionKind is the closed set of auditable actions. The metadata payload
// shape is fixed per kind; writers use the New*Entry constructors and readers
// decode with the matching *Metadata accessor.
type ActionKind string

const (
	ActionCardCreated  ActionKind = "card.created"
	ActionCardMoved    ActionKind = "card.moved"
	ActionCardUpdated  ActionKind = "card.updated"
	ActionCardDeleted  ActionKind = "card.deleted"
	ActionCommentAdded ActionKind = "comment.added"
)

// commentPreviewLimit bounds the excerpt stored with comment.added entries.
const commentPreviewLimit = 80

// ActivityLog is an append-only audit record. CardID and UserID are nulled by
// the store when the referenced row is deleted; the entry itself survives
// everything except deletion of its board.
type ActivityLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CardID    *uuid.UUID `gorm:"type:uuid;index"`
	UserID    *uuid.UUID `gorm:"type:uuid"`
	Action    ActionKind `gorm:"not null"`
	Metadata  datatypes.JSON
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Board Board `gorm:"foreignKey:BoardID"`
	Card  *Card `gorm:"foreignKey:CardID"`
	User  *User `gorm:"foreignKey:UserID"`
}

// MovedMetadata names the source and destination columns of a card.moved
// entry. Column titles are stored, not ids, so the log reads without joins.
type MovedMetadata struct {
	FromColumn string `json:"from_column"`
	ToColumn   string `json:"to_column"`
}

// FieldChangeMetadata describes one changed field of a card.updated entry.
type FieldChangeMetadata struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// CommentMetadata carries a bounded excerpt of the added comment.
type CommentMetadata struct {
	CommentPreview string `json:"comment_preview"`
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		// All payload structs marshal unconditionally.
		panic(err)
	}
	return datatypes.JSON(b)
}

func NewCardCreatedEntry(boardID, cardID, userID uuid.UUID) *ActivityLog {
	return &ActivityLog{
		BoardID:  boardID,
		CardID:   &cardID,
		UserID:   &userID,
		Action:   ActionCardCreated,
		Metadata: mustJSON(struct{}{}),
	}
}

func NewCardMovedEntry(boardID, cardID, userID uuid.UUID, fromColumn, toColumn string) *ActivityLog {
	return &ActivityLog{
		BoardID:  boardID,
		CardID:   &cardID,
		UserID:   &userID,
		Action:   ActionCardMoved,
		Metadata: mustJSON(MovedMetadata{FromColumn: fromColumn, ToColumn: toColumn}),
	}
}

func NewCardUpdatedEntry(boardID, cardID, userID uuid.UUID, field, oldValue, newValue string) *ActivityLog {
	return &ActivityLog{
		BoardID:  boardID,
		CardID:   &cardID,
		UserID:   &userID,
		Action:   ActionCardUpdated,
		Metadata: mustJSON(FieldChangeMetadata{Field: field, OldValue: oldValue, NewValue: newValue}),
	}
}

func NewCardDeletedEntry(boardID, cardID, userID uuid.UUID) *ActivityLog {
	return &ActivityLog{
		BoardID:  boardID,
		CardID:   &cardID,
		UserID:   &userID,
		Action:   ActionCardDeleted,
		Metadata: mustJSON(struct{}{}),
	}
}

func NewCommentAddedEntry(boardID, cardID, userID uuid.UUID, content string) *ActivityLog {
	preview := []rune(content)
	if len(preview) > commentPreviewLimit {
		preview = preview[:commentPreviewLimit]
	}
	return &ActivityLog{
		BoardID:  boardID,
		CardID:   &cardID,
		UserID:   &userID,
		Action:   ActionCommentAdded,
		Metadata: mustJSON(CommentMetadata{CommentPreview: string(preview)}),
	}
}

// MovedMetadata decodes the payload of a card.moved entry.
func (a *ActivityLog) MovedMetadata() (MovedMetadata, error) {
	var m MovedMetadata
	if a.Action != ActionCardMoved {
		return m, fmt.Errorf("activity %s has no move metadata", a.Action)
	}
	err := json.Unmarshal(a.Metadata, &m)
	return m, err
}

// FieldChangeMetadata decodes the payload of a card.updated entry.
func (a *ActivityLog) FieldChangeMetadata() (FieldChangeMetadata, error) {
	var m FieldChangeMetadata
	if a.Action != ActionCardUpdated {
		return m, fmt.Errorf("activity %s has no field-change metadata", a.Action)
	}
	err := json.Unmarshal(a.Metadata, &m)
	return m, err
}

// CommentMetadata decodes the payload of a comment.added entry.
func (a *ActivityLog) CommentMetadata() (CommentMetadata, error) {
	var m CommentMetadata
	if a.Action != ActionCommentAdded {
		return m, fmt.Errorf("activity %s has no comment metadata", a.Action)
	}
	err := json.Unmarshal(a.Metadata, &m)
	return m, err
}
