package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is an enrolled learner profile within an institute.
type Student struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	CollegeID   string    `gorm:"size:64" json:"college_id"`
	Branch      string    `gorm:"size:128" json:"branch"`
	Year        int       `json:"year"`
	InstituteID string    `gorm:"type:uuid;not null;index" json:"institute_id"`
	ProgramID   *string   `gorm:"type:uuid;index" json:"program_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
