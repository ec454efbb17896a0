package model

import (
	"time"

	"github.com/google/uuid"
)

// editedTolerance absorbs clock skew between the created_at and updated_at
// values written by a single INSERT.
const editedTolerance = 2 * time.Second

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Card   Card `gorm:"foreignKey:CardID"`
	Author User `gorm:"foreignKey:AuthorID"`
}

// Edited reports whether the comment has been changed after creation. The
// flag is inferred from the timestamp gap rather than stored.
func (c *Comment) Edited() bool {
	return c.UpdatedAt.Sub(c.CreatedAt) > editedTolerance
}
