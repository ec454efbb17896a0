package model

import (
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ColumnID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title       string     `gorm:"not null"`
	Description string
	AssignedTo  *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	DueDate     *time.Time
	Position    int `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Column   Column  `gorm:"foreignKey:ColumnID"`
	Assignee *User   `gorm:"foreignKey:AssignedTo"`
	Author   User    `gorm:"foreignKey:CreatedBy"`
	Labels   []Label `gorm:"many2many:card_labels"`
}
