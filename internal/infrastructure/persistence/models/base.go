package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel provides the key and timestamps of every table
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}
