// Package authz carries the authenticated principal and the shared
// authorization predicates applied by every activity-type operation.
package authz

import (
	"strings"

	"github.com/campuskit/institute-api/internal/models"
)

// Principal is the authenticated caller: a role plus an institute
// affiliation extracted from the bearer token.
type Principal struct {
	UserID      string
	Name        string
	Email       string
	Role        string
	InstituteID string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(p.Role), models.RoleAdmin)
}

// IsFaculty reports whether the principal carries the faculty role.
func (p Principal) IsFaculty() bool {
	return strings.EqualFold(strings.TrimSpace(p.Role), models.RoleFaculty)
}

// HasInstitute reports whether the principal has a resolvable institute
// affiliation. A blank affiliation signals a stale or malformed session.
func (p Principal) HasInstitute() bool {
	return strings.TrimSpace(p.InstituteID) != ""
}

// Institute returns the trimmed institute affiliation.
func (p Principal) Institute() string {
	return strings.TrimSpace(p.InstituteID)
}
