package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityAssignment ties a submitted activity record to the faculty member
// responsible for reviewing it. One assignment exists per record; the
// reviewer slot starts empty and is filled by an admin, manually or through
// auto-assignment.
type ActivityAssignment struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	ActivityRecordID string    `gorm:"type:uuid;not null;uniqueIndex" json:"activity_record_id"`
	OwnerID          string    `gorm:"type:uuid;not null;index" json:"owner_id"`
	FacultyID        *string   `gorm:"type:uuid;index" json:"faculty_id,omitempty"`
	InstituteID      string    `gorm:"type:uuid;not null;index" json:"institute_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (a *ActivityAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
