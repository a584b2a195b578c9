package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/models"
)

func instituteType(institute, status string) models.ActivityType {
	return models.ActivityType{InstituteID: &institute, Status: status}
}

func primitiveType(status string) models.ActivityType {
	return models.ActivityType{IsPrimitive: true, Status: status}
}

func TestCanViewType(t *testing.T) {
	admin := Principal{Role: models.RoleAdmin, InstituteID: "inst-1"}
	student := Principal{Role: models.RoleStudent, InstituteID: "inst-1"}
	outsider := Principal{Role: models.RoleAdmin, InstituteID: "inst-2"}

	cases := []struct {
		name      string
		record    models.ActivityType
		principal Principal
		wantErr   error
	}{
		{"primitive approved visible to all", primitiveType(models.StatusApproved), student, nil},
		{"own institute approved", instituteType("inst-1", models.StatusApproved), student, nil},
		{"foreign institute forbidden even for admins", instituteType("inst-1", models.StatusApproved), outsider, apperr.ErrForbidden},
		{"under review hidden from non-admin", instituteType("inst-1", models.StatusUnderReview), student, apperr.ErrForbidden},
		{"under review visible to own admin", instituteType("inst-1", models.StatusUnderReview), admin, nil},
		{"primitive under review hidden from non-admin", primitiveType(models.StatusUnderReview), student, apperr.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanViewType(tc.record, tc.principal)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCanUpdateTypeRejectsPrimitivesForEveryRole(t *testing.T) {
	record := primitiveType(models.StatusApproved)
	for _, role := range []string{models.RoleAdmin, models.RoleFaculty, models.RoleStudent} {
		err := CanUpdateType(record, Principal{Role: role, InstituteID: "inst-1"})
		require.ErrorIs(t, err, apperr.ErrForbidden)
		require.Equal(t, "primitive activity types cannot be modified", err.Error())
	}
}

func TestCanUpdateTypeOwnership(t *testing.T) {
	record := instituteType("inst-1", models.StatusApproved)
	require.NoError(t, CanUpdateType(record, Principal{Role: models.RoleAdmin, InstituteID: "inst-1"}))
	require.ErrorIs(t, CanUpdateType(record, Principal{Role: models.RoleAdmin, InstituteID: "inst-2"}), apperr.ErrForbidden)
}

func TestCanChangeStatusAdminOnly(t *testing.T) {
	require.NoError(t, CanChangeStatus(Principal{Role: models.RoleAdmin}))
	require.ErrorIs(t, CanChangeStatus(Principal{Role: models.RoleFaculty}), apperr.ErrForbidden)
}

func TestCanModerateType(t *testing.T) {
	record := instituteType("inst-1", models.StatusUnderReview)

	err := CanModerateType(record, Principal{Role: models.RoleStudent, InstituteID: "inst-1"}, "approve")
	require.ErrorIs(t, err, apperr.ErrForbidden)
	require.Equal(t, "only admins can approve activity types", err.Error())

	err = CanModerateType(record, Principal{Role: models.RoleAdmin, InstituteID: "inst-2"}, "reject")
	require.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, CanModerateType(record, Principal{Role: models.RoleAdmin, InstituteID: "inst-1"}, "approve"))

	// Primitive types have no owner: any admin may moderate them.
	require.NoError(t, CanModerateType(primitiveType(models.StatusUnderReview), Principal{Role: models.RoleAdmin, InstituteID: "inst-2"}, "approve"))
}

func TestCanDeleteType(t *testing.T) {
	require.ErrorIs(t, CanDeleteType(instituteType("inst-1", models.StatusApproved), Principal{Role: models.RoleStudent, InstituteID: "inst-1"}), apperr.ErrForbidden)
	require.ErrorIs(t, CanDeleteType(primitiveType(models.StatusApproved), Principal{Role: models.RoleAdmin, InstituteID: "inst-1"}), apperr.ErrForbidden)
	require.ErrorIs(t, CanDeleteType(instituteType("inst-1", models.StatusApproved), Principal{Role: models.RoleAdmin, InstituteID: "inst-2"}), apperr.ErrForbidden)
	require.NoError(t, CanDeleteType(instituteType("inst-1", models.StatusApproved), Principal{Role: models.RoleAdmin, InstituteID: "inst-1"}))
}

func TestPrincipalHelpers(t *testing.T) {
	require.True(t, Principal{Role: "Admin"}.IsAdmin())
	require.False(t, Principal{Role: "faculty"}.IsAdmin())
	require.False(t, Principal{InstituteID: "   "}.HasInstitute())
	require.Equal(t, "inst-1", Principal{InstituteID: " inst-1 "}.Institute())
}
