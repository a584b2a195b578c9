package service

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/authz"
	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/forms"
	"github.com/campuskit/institute-api/internal/models"
	"github.com/campuskit/institute-api/internal/repository"
)

const (
	instituteOne = "11111111-1111-1111-1111-111111111111"
	instituteTwo = "22222222-2222-2222-2222-222222222222"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type memoryActivityTypeRepo struct {
	records map[string]models.ActivityType
	nextID  int
}

func newMemoryActivityTypeRepo() *memoryActivityTypeRepo {
	return &memoryActivityTypeRepo{records: make(map[string]models.ActivityType)}
}

func (m *memoryActivityTypeRepo) Create(ctx context.Context, record *models.ActivityType) error {
	if record.ID == "" {
		// Deterministic UUID-shaped identifiers for assertions.
		record.ID = testID(m.nextID)
		m.nextID++
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	m.records[record.ID] = *record
	return nil
}

func (m *memoryActivityTypeRepo) ListVisible(ctx context.Context, instituteID string, approvedOnly bool) ([]models.ActivityType, error) {
	results := make([]models.ActivityType, 0, len(m.records))
	for _, record := range m.records {
		visible := record.IsPrimitive || (instituteID != "" && record.OwnedBy(instituteID))
		if !visible {
			continue
		}
		if approvedOnly && record.Status != models.StatusApproved {
			continue
		}
		results = append(results, record)
	}
	return results, nil
}

func (m *memoryActivityTypeRepo) GetByID(ctx context.Context, id string) (models.ActivityType, error) {
	record, ok := m.records[id]
	if !ok {
		return models.ActivityType{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (m *memoryActivityTypeRepo) FindByNameInScope(ctx context.Context, name string, instituteID *string) (models.ActivityType, error) {
	for _, record := range m.records {
		if record.Name != name {
			continue
		}
		if instituteID == nil && record.InstituteID == nil {
			return record, nil
		}
		if instituteID != nil && record.OwnedBy(*instituteID) {
			return record, nil
		}
	}
	return models.ActivityType{}, gorm.ErrRecordNotFound
}

func (m *memoryActivityTypeRepo) Update(ctx context.Context, record *models.ActivityType) error {
	if _, ok := m.records[record.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	record.UpdatedAt = time.Now()
	m.records[record.ID] = *record
	return nil
}

func (m *memoryActivityTypeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memoryActivityTypeRepo) CountByStatus(ctx context.Context, instituteID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, record := range m.records {
		if record.IsPrimitive || record.OwnedBy(instituteID) {
			counts[record.Status]++
		}
	}
	return counts, nil
}

func testID(n int) string {
	ids := []string{
		"aaaaaaaa-0000-0000-0000-000000000000",
		"aaaaaaaa-0000-0000-0000-000000000001",
		"aaaaaaaa-0000-0000-0000-000000000002",
		"aaaaaaaa-0000-0000-0000-000000000003",
		"aaaaaaaa-0000-0000-0000-000000000004",
		"aaaaaaaa-0000-0000-0000-000000000005",
	}
	return ids[n%len(ids)]
}

func newTypeService(repo repository.ActivityTypeRepository) ActivityTypeService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewActivityTypeService(repo, validate, testLogger())
}

var (
	adminOne   = authz.Principal{UserID: "u-admin", Role: models.RoleAdmin, InstituteID: instituteOne}
	adminTwo   = authz.Principal{UserID: "u-admin2", Role: models.RoleAdmin, InstituteID: instituteTwo}
	studentOne = authz.Principal{UserID: "u-student", Role: models.RoleStudent, InstituteID: instituteOne}
)

func internshipPayload() dto.ActivityTypeCreateRequest {
	minCredit, maxCredit := 2.0, 4.0
	return dto.ActivityTypeCreateRequest{
		Name:       "Internship",
		MinCredit:  &minCredit,
		MaxCredit:  &maxCredit,
		FormSchema: json.RawMessage(`[{"key":"company","label":"Company","type":"text"}]`),
	}
}

func TestCreateByAdminIsPreApproved(t *testing.T) {
	svc := newTypeService(newMemoryActivityTypeRepo())

	created, err := svc.Create(context.Background(), internshipPayload(), adminOne)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, models.StatusApproved, created.Status)
	require.Equal(t, instituteOne, created.InstituteID)
	require.False(t, created.IsPrimitive)
}

func TestCreateByStudentNeedsReview(t *testing.T) {
	svc := newTypeService(newMemoryActivityTypeRepo())

	created, err := svc.Create(context.Background(), internshipPayload(), studentOne)
	require.NoError(t, err)
	require.Equal(t, models.StatusUnderReview, created.Status)
	require.Equal(t, instituteOne, created.InstituteID)
}

func TestCreatePrimitiveCarriesNoInstitute(t *testing.T) {
	repo := newMemoryActivityTypeRepo()
	svc := newTypeService(repo)

	payload := internshipPayload()
	payload.Name = "Hackathon"
	payload.IsPrimitive = true

	created, err := svc.Create(context.Background(), payload, adminOne)
	require.NoError(t, err)
	require.True(t, created.IsPrimitive)
	require.Empty(t, created.InstituteID)
	require.Nil(t, repo.records[created.ID].InstituteID)
}

func TestCreateValidationOrder(t *testing.T) {
	svc := newTypeService(newMemoryActivityTypeRepo())
	ctx := context.Background()

	t.Run("blank name", func(t *testing.T) {
		payload := internshipPayload()
		payload.Name = "   "
		_, err := svc.Create(ctx, payload, adminOne)
		require.ErrorIs(t, err, apperr.ErrInvalidInput)
		require.Equal(t, "activity type name is required", err.Error())
	})

	t.Run("credit ordering", func(t *testing.T) {
		payload := internshipPayload()
		minCredit, maxCredit := 5.0, 2.0
		payload.MinCredit, payload.MaxCredit = &minCredit, &maxCredit
		_, err := svc.Create(ctx, payload, adminOne)
		require.ErrorIs(t, err, apperr.ErrInvalidInput)
		require.Equal(t, "minimum credit cannot be greater than maximum credit", err.Error())
	})

	t.Run("schema failure message", func(t *testing.T) {
		payload := internshipPayload()
		payload.FormSchema = json.RawMessage(`[{"key":"opt1","label":"Choice","type":"select","options":[]}]`)
		_, err := svc.Create(ctx, payload, adminOne)
		require.ErrorIs(t, err, apperr.ErrInvalidInput)
		require.Equal(t, "Field 1: select requires options array", err.Error())
	})

	t.Run("non array schema", func(t *testing.T) {
		payload := internshipPayload()
		payload.FormSchema = json.RawMessage(`{"key":"company"}`)
		_, err := svc.Create(ctx, payload, adminOne)
		require.ErrorIs(t, err, apperr.ErrInvalidInput)
		require.Equal(t, "formSchema must be an array", err.Error())
	})
}

func TestCreateDuplicateNameInScopeConflicts(t *testing.T) {
	svc := newTypeService(newMemoryActivityTypeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, internshipPayload(), adminOne)
	require.NoError(t, err)

	_, err = svc.Create(ctx, internshipPayload(), studentOne)
	require.ErrorIs(t, err, apperr.ErrConflict)

	// Same name in a different institute is a different scope.
	_, err = svc.Create(ctx, internshipPayload(), adminTwo)
	require.NoError(t, err)

	// And the primitive group is yet another scope.
	primitive := internshipPayload()
	primitive.IsPrimitive = true
	_, err = svc.Create(ctx, primitive, adminOne)
	require.NoError(t, err)
}

func TestCreateWithoutInstituteAffiliationForbidden(t *testing.T) {
	svc := newTypeService(newMemoryActivityTypeRepo())

	stale := authz.Principal{UserID: "u-stale", Role: models.RoleFaculty, InstituteID: "   "}
	_, err := svc.Create(context.Background(), internshipPayload(), stale)
	require.ErrorIs(t, err, apperr.ErrForbidden)
	require.Contains(t, err.Error(), "log back in")
}

func TestListVisibilityAndStatusFiltering(t *testing.T) {
	repo := newMemoryActivityTypeRepo()
	svc := newTypeService(repo)
	ctx := context.Background()

	// Student submits one; it awaits review.
	pending, err := svc.Create(ctx, internshipPayload(), studentOne)
	require.NoError(t, err)
	require.Equal(t, models.StatusUnderReview, pending.Status)

	primitive := internshipPayload()
	primitive.Name = "Hackathon"
	primitive.IsPrimitive = true
	_, err = svc.Create(ctx, primitive, adminOne)
	require.NoError(t, err)

	foreign := internshipPayload()
	foreign.Name = "Seminar"
	_, err = svc.Create(ctx, foreign, adminTwo)
	require.NoError(t, err)

	studentView, err := svc.List(ctx, studentOne)
	require.NoError(t, err)
	require.Len(t, studentView, 1, "student sees only the approved primitive")
	require.Equal(t, "Hackathon", studentView[0].Name)

	adminView, err := svc.List(ctx, adminOne)
	require.NoError(t, err)
	require.Len(t, adminView, 2, "admin additionally sees the pending institute type")
	for _, record := range adminView {
		require.NotEqual(t, "Seminar", record.Name, "foreign institute types never leak")
	}
}

func TestListWithoutInstituteDegradesToPrimitives(t *testing.T) {
	svc := newTypeService(newMemoryActivityTypeRepo())
	ctx := context.Background()

	primitive := internshipPayload()
	primitive.Name = "Hackathon"
	primitive.IsPrimitive = true
	_, err := svc.Create(ctx, primitive, adminOne)
	require.NoError(t, err)
	_, err = svc.Create(ctx, internshipPayload(), adminOne)
	require.NoError(t, err)

	orphan := authz.Principal{UserID: "u-orphan", Role: models.RoleStudent}
	visible, err := svc.List(ctx, orphan)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.True(t, visible[0].IsPrimitive)
}

func TestGetAccessChecks(t *testing.T) {
	svc := newTypeService(newMemoryActivityTypeRepo())
	ctx := context.Background()

	pending, err := svc.Create(ctx, internshipPayload(), studentOne)
	require.NoError(t, err)

	_, err = svc.Get(ctx, pending.ID, studentOne)
	require.ErrorIs(t, err, apperr.ErrForbidden, "non-admin cannot read an unapproved type")

	fetched, err := svc.Get(ctx, pending.ID, adminOne)
	require.NoError(t, err)
	require.Equal(t, pending.ID, fetched.ID)

	_, err = svc.Get(ctx, pending.ID, adminTwo)
	require.ErrorIs(t, err, apperr.ErrForbidden, "foreign institute cannot read it at all")

	_, err = svc.Get(ctx, "aaaaaaaa-0000-0000-0000-00000000ffff", adminOne)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetRoundTripsFormSchema(t *testing.T) {
	svc := newTypeService(newMemoryActivityTypeRepo())
	ctx := context.Background()

	payload := internshipPayload()
	payload.FormSchema = json.RawMessage(`[
		{"key":"company","label":"Company","type":"text","required":true,"placeholder":"Employer name"},
		{"key":"mode","label":"Mode","type":"select","options":["remote","onsite"]}
	]`)

	created, err := svc.Create(ctx, payload, adminOne)
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, created.ID, adminOne)
	require.NoError(t, err)
	require.Equal(t, []forms.Field{
		{Key: "company", Label: "Company", Type: forms.TypeText, Required: true, Placeholder: "Employer name"},
		{Key: "mode", Label: "Mode", Type: forms.TypeSelect, Options: []string{"remote", "onsite"}},
	}, fetched.FormSchema)
}

func TestUpdateRules(t *testing.T) {
	repo := newMemoryActivityTypeRepo()
	svc := newTypeService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, internshipPayload(), adminOne)
	require.NoError(t, err)

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Update(ctx, "not-a-uuid", dto.ActivityTypeUpdateRequest{}, adminOne)
		require.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := svc.Update(ctx, "aaaaaaaa-0000-0000-0000-00000000ffff", dto.ActivityTypeUpdateRequest{}, adminOne)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("foreign institute", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, dto.ActivityTypeUpdateRequest{}, adminTwo)
		require.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("status change by non-admin", func(t *testing.T) {
		status := models.StatusApproved
		_, err := svc.Update(ctx, created.ID, dto.ActivityTypeUpdateRequest{Status: &status}, studentOne)
		require.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("merged credit validation", func(t *testing.T) {
		// Existing record has maxCredit=4; raising only minCredit above it fails.
		minCredit := 10.0
		_, err := svc.Update(ctx, created.ID, dto.ActivityTypeUpdateRequest{MinCredit: &minCredit}, adminOne)
		require.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("schema revalidated", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, dto.ActivityTypeUpdateRequest{
			FormSchema: json.RawMessage(`[{"key":"a","label":"A","type":"text"},{"key":"a","label":"B","type":"text"}]`),
		}, adminOne)
		require.ErrorIs(t, err, apperr.ErrInvalidInput)
		require.Equal(t, `Field 2: duplicate key "a"`, err.Error())
	})

	t.Run("successful merge", func(t *testing.T) {
		name := "Industry Internship"
		maxCredit := 6.0
		updated, err := svc.Update(ctx, created.ID, dto.ActivityTypeUpdateRequest{Name: &name, MaxCredit: &maxCredit}, adminOne)
		require.NoError(t, err)
		require.Equal(t, "Industry Internship", updated.Name)
		require.Equal(t, 2.0, updated.MinCredit, "unset fields keep their prior values")
		require.Equal(t, 6.0, updated.MaxCredit)
	})
}

func TestUpdateNullFormSchemaLeavesSchema(t *testing.T) {
	repo := newMemoryActivityTypeRepo()
	svc := newTypeService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, internshipPayload(), adminOne)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, dto.ActivityTypeUpdateRequest{FormSchema: json.RawMessage("null")}, adminOne)
	require.NoError(t, err)
	require.Len(t, updated.FormSchema, 1)
	require.Equal(t, "company", updated.FormSchema[0].Key)
}

func TestUpdatePrimitiveAlwaysForbidden(t *testing.T) {
	svc := newTypeService(newMemoryActivityTypeRepo())
	ctx := context.Background()

	payload := internshipPayload()
	payload.Name = "Hackathon"
	payload.IsPrimitive = true
	created, err := svc.Create(ctx, payload, adminOne)
	require.NoError(t, err)

	name := "Renamed"
	for _, principal := range []authz.Principal{adminOne, adminTwo, studentOne} {
		_, err := svc.Update(ctx, created.ID, dto.ActivityTypeUpdateRequest{Name: &name}, principal)
		require.ErrorIs(t, err, apperr.ErrForbidden)
		require.Equal(t, "primitive activity types cannot be modified", err.Error())
	}
}

func TestApproveRejectWorkflow(t *testing.T) {
	repo := newMemoryActivityTypeRepo()
	svc := newTypeService(repo)
	ctx := context.Background()

	pending, err := svc.Create(ctx, internshipPayload(), studentOne)
	require.NoError(t, err)

	t.Run("non-admin forbidden without side effect", func(t *testing.T) {
		_, err := svc.Approve(ctx, pending.ID, studentOne)
		require.ErrorIs(t, err, apperr.ErrForbidden)
		require.Equal(t, models.StatusUnderReview, repo.records[pending.ID].Status)
	})

	t.Run("foreign admin forbidden without side effect", func(t *testing.T) {
		_, err := svc.Approve(ctx, pending.ID, adminTwo)
		require.ErrorIs(t, err, apperr.ErrForbidden)
		require.Equal(t, models.StatusUnderReview, repo.records[pending.ID].Status)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Approve(ctx, "nope", adminOne)
		require.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("own admin approves", func(t *testing.T) {
		approved, err := svc.Approve(ctx, pending.ID, adminOne)
		require.NoError(t, err)
		require.Equal(t, models.StatusApproved, approved.Status)
	})

	t.Run("reject", func(t *testing.T) {
		second, err := svc.Create(ctx, dto.ActivityTypeCreateRequest{Name: "Workshop"}, studentOne)
		require.NoError(t, err)

		rejected, err := svc.Reject(ctx, second.ID, adminOne)
		require.NoError(t, err)
		require.Equal(t, models.StatusRejected, rejected.Status)
	})

	t.Run("any admin moderates primitives", func(t *testing.T) {
		payload := internshipPayload()
		payload.Name = "Hackathon"
		payload.IsPrimitive = true
		primitive, err := svc.Create(ctx, payload, studentOne)
		require.NoError(t, err)
		require.Equal(t, models.StatusUnderReview, primitive.Status)

		approved, err := svc.Approve(ctx, primitive.ID, adminTwo)
		require.NoError(t, err)
		require.Equal(t, models.StatusApproved, approved.Status)
	})
}

func TestDeleteRules(t *testing.T) {
	repo := newMemoryActivityTypeRepo()
	svc := newTypeService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, internshipPayload(), adminOne)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, created.ID, studentOne), apperr.ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, created.ID, adminTwo), apperr.ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, "bad-id", adminOne), apperr.ErrInvalidInput)
	require.ErrorIs(t, svc.Delete(ctx, "aaaaaaaa-0000-0000-0000-00000000ffff", adminOne), apperr.ErrNotFound)

	payload := internshipPayload()
	payload.Name = "Hackathon"
	payload.IsPrimitive = true
	primitive, err := svc.Create(ctx, payload, adminOne)
	require.NoError(t, err)
	require.ErrorIs(t, svc.Delete(ctx, primitive.ID, adminOne), apperr.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, created.ID, adminOne))
	_, ok := repo.records[created.ID]
	require.False(t, ok)
}
