package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Institute is a tenant. Every non-primitive record in the system belongs to
// exactly one institute.
type Institute struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Institute) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
