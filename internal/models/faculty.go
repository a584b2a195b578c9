package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Faculty is a teaching-staff profile within an institute.
type Faculty struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Department  string    `gorm:"size:128" json:"department"`
	Designation string    `gorm:"size:128" json:"designation"`
	InstituteID string    `gorm:"type:uuid;not null;index" json:"institute_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f *Faculty) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
