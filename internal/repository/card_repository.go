package repository

import (
	"context"
	"errors"
	"fmt"

	"flowboard/internal/model"
	"flowboard/internal/position"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardRepository struct {
	db       *gorm.DB
	activity *ActivityRepository
}

func NewCardRepository(db *gorm.DB, activity *ActivityRepository) *CardRepository {
	return &CardRepository{db: db, activity: activity}
}

// Create appends the card at the end of its column's ordering and records the
// card.created activity entry in the same transaction.
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column model.Column
		if err := tx.First(&column, "id = ?", card.ColumnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.Card{}).Where("column_id = ?", card.ColumnID).Count(&count).Error; err != nil {
			return err
		}
		card.Position = int(count)

		if err := tx.Create(card).Error; err != nil {
			return err
		}

		return r.activity.RecordTx(tx, model.NewCardCreatedEntry(column.BoardID, card.ID, card.CreatedBy))
	})
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).Where("column_id = ?", columnID).Order("position").Find(&cards).Error
	return cards, err
}

// GetWithLabels retrieves the column's cards with their labels preloaded.
func (r *CardRepository) GetWithLabels(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Preload("Labels").
		Where("column_id = ?", columnID).
		Order("position").
		Find(&cards).Error
	return cards, err
}

// Update saves the card's scalar fields and appends the given card.updated
// entries atomically. Position and column changes go through Move, not here.
func (r *CardRepository) Update(ctx context.Context, card *model.Card, entries []*model.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Save(card)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCardNotFound
		}
		for _, entry := range entries {
			if err := r.activity.RecordTx(tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete records the card.deleted entry, removes the card (comments and label
// links cascade, the activity row's card reference is nulled by FK) and
// closes the position gap in the card's column.
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		var column model.Column
		if err := tx.First(&column, "id = ?", card.ColumnID).Error; err != nil {
			return err
		}

		if err := r.activity.RecordTx(tx, model.NewCardDeletedEntry(column.BoardID, card.ID, actorID)); err != nil {
			return err
		}

		if err := tx.Delete(&model.Card{}, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Model(&model.Card{}).
			Where("column_id = ? AND position > ?", card.ColumnID, card.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// Reorder applies a complete ordering of the column's cards. The submitted
// list must be a permutation of the column's current card set; anything else
// fails with ErrInvalidOrder and nothing is written.
func (r *CardRepository) Reorder(ctx context.Context, columnID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := cardIDsByColumn(tx, columnID)
		if err != nil {
			return err
		}

		if err := position.Validate(current, orderedIDs); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidOrder, err)
		}

		return applyCardOrder(tx, position.Renumber(orderedIDs))
	})
}

// Move relocates a card, either within its column or across to another column
// of the same board. Both affected orderings are renumbered and the
// card.moved activity entry is appended, all inside one transaction; a move
// to a column of a different board fails with ErrDifferentBoard before any
// write.
func (r *CardRepository) Move(ctx context.Context, cardID, targetColumnID uuid.UUID, targetPosition int, actorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		var source model.Column
		if err := tx.First(&source, "id = ?", card.ColumnID).Error; err != nil {
			return err
		}

		var target model.Column
		if err := tx.First(&target, "id = ?", targetColumnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}

		if target.BoardID != source.BoardID {
			return ErrDifferentBoard
		}

		sourceIDs, err := cardIDsByColumn(tx, card.ColumnID)
		if err != nil {
			return err
		}

		if card.ColumnID == targetColumnID {
			// Degenerate same-column reorder: relocate the card within its
			// current sibling list, target clamped into [0, n-1].
			index := position.Clamp(targetPosition, len(sourceIDs))
			newOrder := position.InsertAt(position.Remove(sourceIDs, card.ID), card.ID, index)
			if slicesEqual(newOrder, sourceIDs) {
				// True no-op: nothing persisted, no activity entry.
				return nil
			}
			if err := applyCardOrder(tx, position.Renumber(newOrder)); err != nil {
				return err
			}
		} else {
			destIDs, err := cardIDsByColumn(tx, targetColumnID)
			if err != nil {
				return err
			}

			newDest := position.InsertAt(destIDs, card.ID, targetPosition)
			index := indexOf(newDest, card.ID)

			if err := tx.Model(&model.Card{}).Where("id = ?", card.ID).
				Updates(map[string]interface{}{"column_id": targetColumnID, "position": index}).Error; err != nil {
				return err
			}
			if err := applyCardOrder(tx, position.Renumber(position.Remove(sourceIDs, card.ID))); err != nil {
				return err
			}
			if err := applyCardOrder(tx, position.Renumber(newDest)); err != nil {
				return err
			}
		}

		return r.activity.RecordTx(tx, model.NewCardMovedEntry(source.BoardID, card.ID, actorID, source.Title, target.Title))
	})
}

// AddLabel attaches a label to a card
func (r *CardRepository) AddLabel(ctx context.Context, cardID, labelID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO card_labels (card_id, label_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		cardID, labelID,
	).Error
}

// RemoveLabel detaches a label from a card
func (r *CardRepository) RemoveLabel(ctx context.Context, cardID, labelID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM card_labels WHERE card_id = ? AND label_id = ?",
		cardID, labelID,
	).Error
}

func cardIDsByColumn(tx *gorm.DB, columnID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&model.Card{}).
		Where("column_id = ?", columnID).
		Order("position").
		Pluck("id", &ids).Error
	return ids, err
}

func applyCardOrder(tx *gorm.DB, placements []position.Placement) error {
	for _, p := range placements {
		if err := tx.Model(&model.Card{}).Where("id = ?", p.ID).
			Update("position", p.Position).Error; err != nil {
			return err
		}
	}
	return nil
}

func slicesEqual(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
