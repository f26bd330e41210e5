package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/pata-backend/internal/logger"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/validation"
)

// FoundationRepository описывает хранилище фондов.
type FoundationRepository interface {
	Create(ctx context.Context, f *models.Foundation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Foundation, error)
	List(ctx context.Context, page repository.Page) ([]models.Foundation, int, error)
}

// FoundationInput данные нового фонда.
type FoundationInput struct {
	Name     string
	City     string
	Address  string
	Phone    string
	Email    string
	Website  string
	ImageURL string
	About    string
}

// FoundationService управляет каталогом фондов.
type FoundationService struct {
	repo FoundationRepository
	now  func() time.Time
}

// NewFoundationService создаёт сервис фондов.
func NewFoundationService(repo FoundationRepository) *FoundationService {
	return &FoundationService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Create регистрирует фонд от имени текущего пользователя.
func (s *FoundationService) Create(ctx context.Context, actor *Actor, in FoundationInput) (*models.Foundation, error) {
	if actor.IsAnonymous() {
		return nil, apperror.ErrUnauthorized
	}

	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = validation.NormalizeEmail(in.Email)
	in.Website = strings.TrimSpace(in.Website)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.About = strings.TrimSpace(in.About)

	if in.Name == "" {
		return nil, apperror.New(apperror.ErrCodeMissingField, "falta el campo obligatorio name")
	}

	for _, check := range []error{
		validation.ValidateName(in.Name),
		validation.ValidateLength("la ciudad", in.City, 0, validation.MaxShortFieldLength),
		validation.ValidateLength("la dirección", in.Address, 0, validation.MaxLocationLength),
		validation.ValidateLength("la descripción", in.About, 0, validation.MaxAboutLength),
		validation.ValidateOptionalPhone(in.Phone),
		validation.ValidateOptionalEmail(in.Email),
		validation.ValidateExternalLink(in.Website),
		validation.ValidateExternalLink(in.ImageURL),
	} {
		if check != nil {
			return nil, apperror.Wrap(check, apperror.ErrCodeInvalidInput, check.Error())
		}
	}

	now := s.now()
	f := &models.Foundation{
		ID:        uuid.New(),
		OwnerID:   actor.UserID,
		Name:      in.Name,
		City:      in.City,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Website:   in.Website,
		ImageURL:  in.ImageURL,
		About:     in.About,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, apperror.Internal(fmt.Errorf("foundation service: create %w", err))
	}

	logger.Get().WithFields(logrus.Fields{
		"foundation_id": f.ID,
		"owner_id":      f.OwnerID,
	}).Info("fundación registrada")
	return f, nil
}

// Get возвращает фонд по идентификатору.
func (s *FoundationService) Get(ctx context.Context, id uuid.UUID) (*models.Foundation, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFoundationNotFound) {
			return nil, apperror.ErrFoundationNotFound
		}
		return nil, apperror.Internal(fmt.Errorf("foundation service: get %w", err))
	}
	return f, nil
}

// List возвращает страницу фондов, новые первыми.
func (s *FoundationService) List(ctx context.Context, page repository.Page) (PageResult[models.Foundation], error) {
	page = page.Normalize()
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return PageResult[models.Foundation]{}, apperror.Internal(fmt.Errorf("foundation service: list %w", err))
	}
	return newPageResult(items, total, page.Number, page.Size), nil
}
