package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/repository"
)

type mockFoundationRepository struct {
	mock.Mock
}

func (m *mockFoundationRepository) Create(ctx context.Context, f *models.Foundation) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *mockFoundationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Foundation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Foundation), args.Error(1)
}

func (m *mockFoundationRepository) List(ctx context.Context, page repository.Page) ([]models.Foundation, int, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Foundation), args.Int(1), args.Error(2)
}

func TestFoundationService_Create(t *testing.T) {
	repo := new(mockFoundationRepository)
	svc := NewFoundationService(repo)
	actor := &Actor{UserID: uuid.New(), Role: models.RoleUser}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(f *models.Foundation) bool {
		return f.OwnerID == actor.UserID && f.Name == "Patitas Felices" && f.Email == "hola@patitas.cl"
	})).Return(nil).Once()

	f, err := svc.Create(context.Background(), actor, FoundationInput{
		Name:    "  Patitas Felices ",
		City:    "Valparaíso",
		Email:   "Hola@Patitas.cl",
		Website: "https://patitas.cl",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, f.ID)
	assert.False(t, f.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestFoundationService_CreateValidation(t *testing.T) {
	repo := new(mockFoundationRepository)
	svc := NewFoundationService(repo)
	actor := &Actor{UserID: uuid.New(), Role: models.RoleUser}
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, FoundationInput{Name: "Patitas"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Create(ctx, actor, FoundationInput{Name: " "})
	assert.Equal(t, apperror.ErrCodeMissingField, apperror.CodeOf(err))

	_, err = svc.Create(ctx, actor, FoundationInput{Name: "Patitas", Website: "ftp://patitas.cl"})
	assert.Equal(t, apperror.ErrCodeInvalidInput, apperror.CodeOf(err))

	_, err = svc.Create(ctx, actor, FoundationInput{Name: "Patitas", Email: "patitas"})
	assert.Equal(t, apperror.ErrCodeInvalidInput, apperror.CodeOf(err))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFoundationService_Get(t *testing.T) {
	repo := new(mockFoundationRepository)
	svc := NewFoundationService(repo)
	known := &models.Foundation{ID: uuid.New(), Name: "Patitas"}
	missing := uuid.New()

	repo.On("GetByID", mock.Anything, known.ID).Return(known, nil)
	repo.On("GetByID", mock.Anything, missing).Return(nil, repository.ErrFoundationNotFound)

	got, err := svc.Get(context.Background(), known.ID)
	require.NoError(t, err)
	assert.Equal(t, known, got)

	_, err = svc.Get(context.Background(), missing)
	assert.ErrorIs(t, err, apperror.ErrFoundationNotFound)
}

func TestFoundationService_List(t *testing.T) {
	repo := new(mockFoundationRepository)
	svc := NewFoundationService(repo)

	repo.On("List", mock.Anything, repository.Page{Number: 1, Size: repository.DefaultPageSize}).
		Return([]models.Foundation{{Name: "A"}, {Name: "B"}}, 21, nil).Once()

	res, err := svc.List(context.Background(), repository.Page{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.TotalPages)

	repo.On("List", mock.Anything, mock.Anything).Return([]models.Foundation(nil), 0, errors.New("db caída")).Once()
	_, err = svc.List(context.Background(), repository.Page{Number: 2})
	assert.Equal(t, apperror.ErrCodeInternal, apperror.CodeOf(err))
}
