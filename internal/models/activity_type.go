package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/forms"
)

// ActivityType workflow statuses.
const (
	StatusApproved    = "APPROVED"
	StatusUnderReview = "UNDER_REVIEW"
	StatusRejected    = "REJECTED"
)

// ActivityType is a named, versioned form-schema definition used to collect
// structured activity records. Primitive types are global; all others belong
// to exactly one institute.
type ActivityType struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsPrimitive bool           `gorm:"not null;default:false;index" json:"is_primitive"`
	InstituteID *string        `gorm:"type:uuid;index:idx_activity_types_institute" json:"institute_id,omitempty"`
	FormSchema  datatypes.JSON `gorm:"type:json" json:"-"`
	MinCredit   float64        `gorm:"not null;default:0" json:"min_credit"`
	MaxCredit   float64        `gorm:"not null;default:0" json:"max_credit"`
	Status      string         `gorm:"size:32;not null;index" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BeforeCreate assigns a server-side identifier when none is set.
func (t *ActivityType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Schema decodes the stored form schema into typed fields.
func (t ActivityType) Schema() ([]forms.Field, error) {
	if len(t.FormSchema) == 0 {
		return nil, nil
	}

	var fields []forms.Field
	if err := json.Unmarshal(t.FormSchema, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// SetSchema serializes validated fields into the JSON column.
func (t *ActivityType) SetSchema(fields []forms.Field) error {
	if fields == nil {
		fields = []forms.Field{}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	t.FormSchema = datatypes.JSON(raw)
	return nil
}

// OwnedBy reports whether the type belongs to the given institute.
func (t ActivityType) OwnedBy(instituteID string) bool {
	return t.InstituteID != nil && *t.InstituteID == instituteID
}
