package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/forms"
	"github.com/campuskit/institute-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ActivityType{}, &models.Institute{}, &models.Student{}))
	return db
}

func TestActivityTypeRepositoryVisibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityTypeRepository(db)
	ctx := context.Background()

	inst1 := "11111111-1111-1111-1111-111111111111"
	inst2 := "22222222-2222-2222-2222-222222222222"

	primitive := models.ActivityType{Name: "Hackathon", IsPrimitive: true, Status: models.StatusApproved}
	owned := models.ActivityType{Name: "Internship", InstituteID: &inst1, Status: models.StatusApproved}
	pending := models.ActivityType{Name: "Workshop", InstituteID: &inst1, Status: models.StatusUnderReview}
	foreign := models.ActivityType{Name: "Seminar", InstituteID: &inst2, Status: models.StatusApproved}

	for _, record := range []*models.ActivityType{&primitive, &owned, &pending, &foreign} {
		require.NoError(t, repo.Create(ctx, record))
		require.NotEmpty(t, record.ID)
	}

	visible, err := repo.ListVisible(ctx, inst1, false)
	require.NoError(t, err)
	require.Len(t, visible, 3)
	for _, record := range visible {
		require.NotEqual(t, "Seminar", record.Name)
	}

	approved, err := repo.ListVisible(ctx, inst1, true)
	require.NoError(t, err)
	require.Len(t, approved, 2)

	// Without an institute affiliation only primitives remain.
	primitivesOnly, err := repo.ListVisible(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, primitivesOnly, 1)
	require.Equal(t, "Hackathon", primitivesOnly[0].Name)
}

func TestActivityTypeRepositoryNameScope(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityTypeRepository(db)
	ctx := context.Background()

	inst1 := "11111111-1111-1111-1111-111111111111"
	inst2 := "22222222-2222-2222-2222-222222222222"

	require.NoError(t, repo.Create(ctx, &models.ActivityType{Name: "Internship", IsPrimitive: true, Status: models.StatusApproved}))
	require.NoError(t, repo.Create(ctx, &models.ActivityType{Name: "Internship", InstituteID: &inst1, Status: models.StatusApproved}))

	found, err := repo.FindByNameInScope(ctx, "Internship", nil)
	require.NoError(t, err)
	require.True(t, found.IsPrimitive)

	found, err = repo.FindByNameInScope(ctx, "Internship", &inst1)
	require.NoError(t, err)
	require.Equal(t, inst1, *found.InstituteID)

	_, err = repo.FindByNameInScope(ctx, "Internship", &inst2)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActivityTypeRepositorySchemaRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityTypeRepository(db)
	ctx := context.Background()

	inst := "11111111-1111-1111-1111-111111111111"
	fields := []forms.Field{
		{Key: "company", Label: "Company", Type: forms.TypeText, Required: true},
		{Key: "mode", Label: "Mode", Type: forms.TypeSelect, Options: []string{"remote", "onsite"}},
	}

	record := models.ActivityType{Name: "Internship", InstituteID: &inst, Status: models.StatusUnderReview}
	require.NoError(t, record.SetSchema(fields))
	require.NoError(t, repo.Create(ctx, &record))

	fetched, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)

	decoded, err := fetched.Schema()
	require.NoError(t, err)
	require.Equal(t, fields, decoded)
}

func TestActivityTypeRepositoryDeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityTypeRepository(db)

	err := repo.Delete(context.Background(), "33333333-3333-3333-3333-333333333333")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActivityTypeRepositoryCountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityTypeRepository(db)
	ctx := context.Background()

	inst := "11111111-1111-1111-1111-111111111111"
	require.NoError(t, repo.Create(ctx, &models.ActivityType{Name: "A", InstituteID: &inst, Status: models.StatusApproved}))
	require.NoError(t, repo.Create(ctx, &models.ActivityType{Name: "B", InstituteID: &inst, Status: models.StatusApproved}))
	require.NoError(t, repo.Create(ctx, &models.ActivityType{Name: "C", InstituteID: &inst, Status: models.StatusUnderReview}))

	counts, err := repo.CountByStatus(ctx, inst)
	require.NoError(t, err)
	require.Equal(t, int64(2), counts[models.StatusApproved])
	require.Equal(t, int64(1), counts[models.StatusUnderReview])
}
