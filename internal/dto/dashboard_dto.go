package dto

import (
	"encoding/json"
	"time"
)

// DashboardResponse aggregates institute-level counts for the admin
// dashboard.
type DashboardResponse struct {
	InstituteID         string           `json:"institute_id"`
	ActivityTypeCounts  map[string]int64 `json:"activity_type_counts"`
	PendingActivityType int64            `json:"pending_activity_types"`
	Students            int64            `json:"students"`
	Faculty             int64            `json:"faculty"`
	Programs            int64            `json:"programs"`
	GeneratedAt         time.Time        `json:"generated_at"`
	CacheHit            bool             `json:"cache_hit"`
}

// ActivityTypeSeed describes one primitive activity type in the seed
// catalogue.
type ActivityTypeSeed struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	MinCredit   float64         `json:"min_credit" validate:"gte=0"`
	MaxCredit   float64         `json:"max_credit" validate:"gte=0"`
	FormSchema  json.RawMessage `json:"form_schema"`
}
