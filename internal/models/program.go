package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Program is an academic program offered by an institute. Names are unique
// within the owning institute.
type Program struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Level         string    `gorm:"size:64" json:"level"`
	Degree        string    `gorm:"size:64" json:"degree"`
	DurationYears int       `json:"duration_years"`
	Intake        int       `json:"intake"`
	InstituteID   string    `gorm:"type:uuid;not null;index" json:"institute_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Program) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
