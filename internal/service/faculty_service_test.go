package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campuskit/institute-api/internal/apperr"
	"github.com/campuskit/institute-api/internal/dto"
	"github.com/campuskit/institute-api/internal/models"
)

type memoryFacultyRepo struct {
	records map[string]models.Faculty
	nextID  int
}

func newMemoryFacultyRepo() *memoryFacultyRepo {
	return &memoryFacultyRepo{records: make(map[string]models.Faculty)}
}

func (m *memoryFacultyRepo) Create(ctx context.Context, faculty *models.Faculty) error {
	for _, existing := range m.records {
		if existing.Email == faculty.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if faculty.ID == "" {
		faculty.ID = testID(m.nextID)
		m.nextID++
	}
	faculty.CreatedAt = time.Now()
	faculty.UpdatedAt = time.Now()
	m.records[faculty.ID] = *faculty
	return nil
}

func (m *memoryFacultyRepo) ListByInstitute(ctx context.Context, instituteID string) ([]models.Faculty, error) {
	results := make([]models.Faculty, 0, len(m.records))
	for _, record := range m.records {
		if record.InstituteID == instituteID {
			results = append(results, record)
		}
	}
	return results, nil
}

func (m *memoryFacultyRepo) GetByID(ctx context.Context, id string) (models.Faculty, error) {
	record, ok := m.records[id]
	if !ok {
		return models.Faculty{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (m *memoryFacultyRepo) GetByEmail(ctx context.Context, email string) (models.Faculty, error) {
	for _, record := range m.records {
		if record.Email == email {
			return record, nil
		}
	}
	return models.Faculty{}, gorm.ErrRecordNotFound
}

func (m *memoryFacultyRepo) Update(ctx context.Context, faculty *models.Faculty) error {
	if _, ok := m.records[faculty.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.records[faculty.ID] = *faculty
	return nil
}

func (m *memoryFacultyRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memoryFacultyRepo) CountByInstitute(ctx context.Context, instituteID string) (int64, error) {
	var count int64
	for _, record := range m.records {
		if record.InstituteID == instituteID {
			count++
		}
	}
	return count, nil
}

func newFacultyService(faculty *memoryFacultyRepo) FacultyService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewFacultyService(faculty, validate, testLogger())
}

func TestFacultyCreateAndList(t *testing.T) {
	svc := newFacultyService(newMemoryFacultyRepo())

	created, err := svc.Create(context.Background(), dto.FacultyCreateRequest{
		Name:        "Dr. Kumar",
		Email:       "Kumar@Example.com",
		Department:  "Physics",
		Designation: "Professor",
	}, adminOne)
	require.NoError(t, err)
	require.Equal(t, "kumar@example.com", created.Email)
	require.Equal(t, instituteOne, created.InstituteID)

	listed, err := svc.List(context.Background(), adminTwo)
	require.NoError(t, err)
	require.Empty(t, listed)

	listed, err = svc.List(context.Background(), adminOne)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestFacultyCreateRequiresAdmin(t *testing.T) {
	svc := newFacultyService(newMemoryFacultyRepo())

	_, err := svc.Create(context.Background(), dto.FacultyCreateRequest{Name: "Dr. Kumar", Email: "kumar@example.com"}, studentOne)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestFacultyUpdateCrossInstituteForbidden(t *testing.T) {
	svc := newFacultyService(newMemoryFacultyRepo())

	created, err := svc.Create(context.Background(), dto.FacultyCreateRequest{Name: "Dr. Kumar", Email: "kumar@example.com"}, adminOne)
	require.NoError(t, err)

	department := "Chemistry"
	_, err = svc.Update(context.Background(), created.ID, dto.FacultyUpdateRequest{Department: &department}, adminTwo)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := svc.Update(context.Background(), created.ID, dto.FacultyUpdateRequest{Department: &department}, adminOne)
	require.NoError(t, err)
	require.Equal(t, "Chemistry", updated.Department)
}

func TestFacultyDelete(t *testing.T) {
	svc := newFacultyService(newMemoryFacultyRepo())

	created, err := svc.Create(context.Background(), dto.FacultyCreateRequest{Name: "Dr. Kumar", Email: "kumar@example.com"}, adminOne)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, adminOne))
	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, adminOne), apperr.ErrNotFound)
}
