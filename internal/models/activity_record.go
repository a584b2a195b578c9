package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Review lifecycle of a submitted activity record. Every submission starts
// PENDING and is settled by its assigned reviewer.
const (
	RecordStatusPending  = "PENDING"
	RecordStatusApproved = "APPROVED"
	RecordStatusRejected = "REJECTED"
)

// ActivityRecord is a structured activity submitted by a user against an
// approved activity type. Details conform to the type's form schema at the
// time of submission.
type ActivityRecord struct {
	ID             string            `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string            `gorm:"size:255;not null" json:"title"`
	ActivityTypeID string            `gorm:"type:uuid;not null;index" json:"activity_type_id"`
	OwnerID        string            `gorm:"type:uuid;not null;index" json:"owner_id"`
	InstituteID    string            `gorm:"type:uuid;not null;index" json:"institute_id"`
	Credits        float64           `gorm:"not null;default:0" json:"credits"`
	Details        datatypes.JSONMap `gorm:"type:json" json:"details"`
	Status         string            `gorm:"size:32;not null;default:PENDING" json:"status"`
	ReviewNote     string            `gorm:"size:512" json:"review_note"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (r *ActivityRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
