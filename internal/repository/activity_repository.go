package repository

import (
	"context"

	"flowboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository is the audit sink. Entries are append-only: there is no
// update or delete surface, and reads are limited to listing by board.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Record appends one entry outside any caller transaction.
func (r *ActivityRepository) Record(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// RecordTx appends one entry inside the caller's transaction, so the audit
// row commits or rolls back together with the mutation it describes.
func (r *ActivityRepository) RecordTx(tx *gorm.DB, entry *model.ActivityLog) error {
	return tx.Create(entry).Error
}

// ListByBoard returns the board's newest entries first, capped at limit.
func (r *ActivityRepository) ListByBoard(ctx context.Context, boardID uuid.UUID, limit int) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
