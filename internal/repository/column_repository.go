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

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// Create appends the column at the end of its board's ordering.
func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Column{}).Where("board_id = ?", column.BoardID).Count(&count).Error; err != nil {
			return err
		}
		column.Position = int(count)
		return tx.Create(column).Error
	})
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position").Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) Update(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Save(column).Error
}

// Delete removes the column (cards cascade via FK) and renumbers the board's
// remaining columns so positions stay dense.
func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column model.Column
		if err := tx.First(&column, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}

		if err := tx.Delete(&model.Column{}, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Model(&model.Column{}).
			Where("board_id = ? AND position > ?", column.BoardID, column.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// Reorder applies a complete ordering of the board's columns: the id at index
// i ends up at position i. The submitted list must be a permutation of the
// board's current column set; anything else fails with ErrInvalidOrder and
// nothing is written.
func (r *ColumnRepository) Reorder(ctx context.Context, boardID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := columnIDsByBoard(tx, boardID)
		if err != nil {
			return err
		}

		if err := position.Validate(current, orderedIDs); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidOrder, err)
		}

		return applyColumnOrder(tx, position.Renumber(orderedIDs))
	})
}

func columnIDsByBoard(tx *gorm.DB, boardID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&model.Column{}).
		Where("board_id = ?", boardID).
		Order("position").
		Pluck("id", &ids).Error
	return ids, err
}

func applyColumnOrder(tx *gorm.DB, placements []position.Placement) error {
	for _, p := range placements {
		if err := tx.Model(&model.Column{}).Where("id = ?", p.ID).
			Update("position", p.Position).Error; err != nil {
			return err
		}
	}
	return nil
}
