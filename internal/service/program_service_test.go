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

type memoryProgramRepo struct {
	records map[string]models.Program
	nextID  int
}

func newMemoryProgramRepo() *memoryProgramRepo {
	return &memoryProgramRepo{records: make(map[string]models.Program)}
}

func (m *memoryProgramRepo) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = testID(m.nextID)
		m.nextID++
	}
	program.CreatedAt = time.Now()
	program.UpdatedAt = time.Now()
	m.records[program.ID] = *program
	return nil
}

func (m *memoryProgramRepo) ListByInstitute(ctx context.Context, instituteID string) ([]models.Program, error) {
	results := make([]models.Program, 0, len(m.records))
	for _, record := range m.records {
		if record.InstituteID == instituteID {
			results = append(results, record)
		}
	}
	return results, nil
}

func (m *memoryProgramRepo) GetByID(ctx context.Context, id string) (models.Program, error) {
	record, ok := m.records[id]
	if !ok {
		return models.Program{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (m *memoryProgramRepo) FindByNameInInstitute(ctx context.Context, name, instituteID string) (models.Program, error) {
	for _, record := range m.records {
		if record.Name == name && record.InstituteID == instituteID {
			return record, nil
		}
	}
	return models.Program{}, gorm.ErrRecordNotFound
}

func (m *memoryProgramRepo) Update(ctx context.Context, program *models.Program) error {
	if _, ok := m.records[program.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.records[program.ID] = *program
	return nil
}

func (m *memoryProgramRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memoryProgramRepo) CountByInstitute(ctx context.Context, instituteID string) (int64, error) {
	var count int64
	for _, record := range m.records {
		if record.InstituteID == instituteID {
			count++
		}
	}
	return count, nil
}

func newProgramService(programs *memoryProgramRepo) ProgramService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewProgramService(programs, validate, testLogger())
}

func TestProgramCreate(t *testing.T) {
	svc := newProgramService(newMemoryProgramRepo())

	created, err := svc.Create(context.Background(), dto.ProgramCreateRequest{
		Name:          "B.Tech Computer Science",
		Level:         "undergraduate",
		Degree:        "B.Tech",
		DurationYears: 4,
	}, adminOne)
	require.NoError(t, err)
	require.Equal(t, instituteOne, created.InstituteID)

	_, err = svc.Create(context.Background(), dto.ProgramCreateRequest{Name: "B.Tech Computer Science"}, studentOne)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestProgramNameUniquePerInstitute(t *testing.T) {
	svc := newProgramService(newMemoryProgramRepo())

	payload := dto.ProgramCreateRequest{Name: "B.Tech Computer Science"}
	_, err := svc.Create(context.Background(), payload, adminOne)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), payload, adminOne)
	require.ErrorIs(t, err, apperr.ErrConflict)

	// Same name in another institute is a different program.
	_, err = svc.Create(context.Background(), payload, adminTwo)
	require.NoError(t, err)
}

func TestProgramUpdateRenameConflict(t *testing.T) {
	svc := newProgramService(newMemoryProgramRepo())

	_, err := svc.Create(context.Background(), dto.ProgramCreateRequest{Name: "B.Tech Computer Science"}, adminOne)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), dto.ProgramCreateRequest{Name: "M.Tech Computer Science"}, adminOne)
	require.NoError(t, err)

	taken := "B.Tech Computer Science"
	_, err = svc.Update(context.Background(), second.ID, dto.ProgramUpdateRequest{Name: &taken}, adminOne)
	require.ErrorIs(t, err, apperr.ErrConflict)

	fresh := "M.Tech Data Science"
	updated, err := svc.Update(context.Background(), second.ID, dto.ProgramUpdateRequest{Name: &fresh}, adminOne)
	require.NoError(t, err)
	require.Equal(t, fresh, updated.Name)
}

func TestProgramListAndDeleteScoped(t *testing.T) {
	svc := newProgramService(newMemoryProgramRepo())

	created, err := svc.Create(context.Background(), dto.ProgramCreateRequest{Name: "B.Tech Computer Science"}, adminOne)
	require.NoError(t, err)

	listed, err := svc.List(context.Background(), adminTwo)
	require.NoError(t, err)
	require.Empty(t, listed)

	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, adminTwo), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), created.ID, adminOne))
	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, adminOne), apperr.ErrNotFound)
}
