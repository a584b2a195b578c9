package authz

import (
	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/models"
)

// CanViewType decides read access to an activity type. Primitive types are
// visible to everyone; institute types only to their owning institute, and
// non-admins only see approved definitions.
func CanViewType(t models.ActivityType, p Principal) error {
	if !t.IsPrimitive && !t.OwnedBy(p.Institute()) {
		return apperr.Forbidden("activity type is not accessible to your institute")
	}
	if !p.IsAdmin() && t.Status != models.StatusApproved {
		return apperr.Forbidden("you can only view approved activity types")
	}
	return nil
}

// CanUpdateType decides whether the principal may modify the record's
// fields. Primitives are immutable; institute types are writable only by
// their owning institute.
func CanUpdateType(t models.ActivityType, p Principal) error {
	if t.IsPrimitive {
		return apperr.Forbidden("primitive activity types cannot be modified")
	}
	if !t.OwnedBy(p.Institute()) {
		return apperr.Forbidden("you can only update activity types from your institute")
	}
	return nil
}

// CanChangeStatus guards the status field on updates.
func CanChangeStatus(p Principal) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("only admins can change activity type status")
	}
	return nil
}

// CanModerateType decides approve/reject access. Admin only; institute
// types must belong to the moderator's institute, while primitives carry no
// owner and may be moderated by any admin.
func CanModerateType(t models.ActivityType, p Principal, action string) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("only admins can %s activity types", action)
	}
	if !t.IsPrimitive && !t.OwnedBy(p.Institute()) {
		return apperr.Forbidden("you can only %s activity types from your institute", action)
	}
	return nil
}

// CanDeleteType decides delete access. Admin only; primitives are
// undeletable and institute types must belong to the deleter's institute.
func CanDeleteType(t models.ActivityType, p Principal) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("only admins can delete activity types")
	}
	if t.IsPrimitive {
		return apperr.Forbidden("primitive activity types cannot be deleted")
	}
	if !t.OwnedBy(p.Institute()) {
		return apperr.Forbidden("you can only delete activity types from your institute")
	}
	return nil
}
