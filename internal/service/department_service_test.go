package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
)

type mockDepartmentRepo struct {
	departments []models.Department
}

func (m *mockDepartmentRepo) Create(ctx context.Context, dept *models.Department) error {
	if dept.ID == "" {
		dept.ID = "generated"
	}
	m.departments = append(m.departments, *dept)
	return nil
}

func (m *mockDepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	return m.departments, nil
}

func TestDepartmentServiceCreateDefaults(t *testing.T) {
	repo := &mockDepartmentRepo{}
	svc := NewDepartmentService(repo, validator.New(), zap.NewNop())

	dept, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Computer Science", Code: "CSE"})
	require.NoError(t, err)
	assert.NotEmpty(t, dept.ID)
	assert.Equal(t, models.DepartmentTypeAcademic, dept.Type)
	assert.True(t, dept.IsActive)
}

func TestDepartmentServiceCreateValidation(t *testing.T) {
	svc := NewDepartmentService(&mockDepartmentRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Exams Cell"})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), CreateDepartmentRequest{Name: "Exams Cell", Code: "EXM", Type: "bogus"})
	require.Error(t, err)
}

func TestDepartmentServiceCreateThenListRoundTrip(t *testing.T) {
	repo := &mockDepartmentRepo{}
	svc := NewDepartmentService(repo, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Exams Cell", Code: "EXM", Type: "administrative"})
	require.NoError(t, err)

	departments, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, created.ID, departments[0].ID)
	assert.Equal(t, "Exams Cell", departments[0].Name)
	assert.Equal(t, "EXM", departments[0].Code)
	assert.Equal(t, models.DepartmentTypeAdministrative, departments[0].Type)
}
