package model_test

import (
	"strings"
	"testing"

	"flowboard/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCardMovedEntry_MetadataNamesBothColumns(t *testing.T) {
	boardID, cardID, userID := uuid.New(), uuid.New(), uuid.New()

	entry := model.NewCardMovedEntry(boardID, cardID, userID, "To Do", "Done")

	assert.Equal(t, model.ActionCardMoved, entry.Action)
	meta, err := entry.MovedMetadata()
	assert.NoError(t, err)
	assert.Equal(t, "To Do", meta.FromColumn)
	assert.Equal(t, "Done", meta.ToColumn)
}

func TestCardUpdatedEntry_MetadataNamesFieldAndValues(t *testing.T) {
	entry := model.NewCardUpdatedEntry(uuid.New(), uuid.New(), uuid.New(), "title", "old", "new")

	meta, err := entry.FieldChangeMetadata()
	assert.NoError(t, err)
	assert.Equal(t, "title", meta.Field)
	assert.Equal(t, "old", meta.OldValue)
	assert.Equal(t, "new", meta.NewValue)
}

func TestCommentAddedEntry_PreviewIsBounded(t *testing.T) {
	long := strings.Repeat("x", 500)

	entry := model.NewCommentAddedEntry(uuid.New(), uuid.New(), uuid.New(), long)

	meta, err := entry.CommentMetadata()
	assert.NoError(t, err)
	assert.Len(t, meta.CommentPreview, 80)
}

func TestMetadataAccessors_RejectWrongKind(t *testing.T) {
	// The payload shape is closed per action kind: reading a created entry
	// as a move must fail instead of returning zero values silently.
	entry := model.NewCardCreatedEntry(uuid.New(), uuid.New(), uuid.New())

	_, err := entry.MovedMetadata()
	assert.Error(t, err)

	_, err = entry.FieldChangeMetadata()
	assert.Error(t, err)

	_, err = entry.CommentMetadata()
	assert.Error(t, err)
}

func TestCreatedAndDeletedEntries_EmptyMetadata(t *testing.T) {
	created := model.NewCardCreatedEntry(uuid.New(), uuid.New(), uuid.New())
	deleted := model.NewCardDeletedEntry(uuid.New(), uuid.New(), uuid.New())

	assert.JSONEq(t, "{}", string(created.Metadata))
	assert.JSONEq(t, "{}", string(deleted.Metadata))
}
