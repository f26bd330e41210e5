package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/pata-backend/internal/logger"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.User, error)
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
	hashCost     int
	now          func() time.Time
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	NationalID string
	Phone      string
	Region     string
	Commune    string
	Social     string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
		hashCost:     bcrypt.DefaultCost,
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Register создаёт пользователя с ролью user и выдаёт токен.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validation.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.NationalID = strings.TrimSpace(in.NationalID)

	required := []struct {
		field string
		value string
	}{
		{"name", in.Name},
		{"email", in.Email},
		{"password", in.Password},
		{"national_id", in.NationalID},
		{"phone", in.Phone},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, apperror.New(apperror.ErrCodeMissingField, fmt.Sprintf("falta el campo obligatorio %s", r.field))
		}
	}

	for _, check := range []error{
		validation.ValidateName(in.Name),
		validation.ValidateEmail(in.Email),
		validation.ValidatePassword(in.Password),
		validation.ValidatePhone(in.Phone),
		validation.ValidateLength("la región", in.Region, 0, validation.MaxShortFieldLength),
		validation.ValidateLength("la comuna", in.Commune, 0, validation.MaxShortFieldLength),
	} {
		if check != nil {
			return nil, apperror.Wrap(check, apperror.ErrCodeInvalidInput, check.Error())
		}
	}

	if err := validation.CheckRUT(in.NationalID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidNationalID, "RUT inválido")
	}
	nationalID := validation.NormalizeRUT(in.NationalID)

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.Internal(fmt.Errorf("auth service: get by email: %w", err))
	}

	if _, err := s.repo.GetByNationalID(ctx, nationalID); err == nil {
		return nil, apperror.ErrNationalIDTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.Internal(fmt.Errorf("auth service: get by national id: %w", err))
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("auth service: hash password: %w", err))
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(passHash),
		NationalID:   nationalID,
		Phone:        in.Phone,
		Region:       strings.TrimSpace(in.Region),
		Commune:      strings.TrimSpace(in.Commune),
		Social:       strings.TrimSpace(in.Social),
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateNationalID):
			return nil, apperror.ErrNationalIDTaken
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperror.ErrEmailTaken
		}
		return nil, apperror.Internal(fmt.Errorf("auth service: create: %w", err))
	}

	logger.Get().WithFields(logrus.Fields{
		"user_id": user.ID,
	}).Info("usuario registrado")

	return s.issue(user)
}

// Login проверяет учётные данные. Неизвестный email и неверный пароль
// дают одну и ту же ошибку.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.Internal(fmt.Errorf("auth service: get by email: %w", err))
		}
		// выравниваем время ответа с веткой существующего пользователя
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(in.Password))
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me возвращает профиль текущего пользователя.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Internal(fmt.Errorf("auth service: get by id: %w", err))
	}
	return user, nil
}

// Authenticate проверяет токен сессии и возвращает актора.
func (s *AuthService) Authenticate(token string) (*Actor, error) {
	claims, err := s.tokenManager.Parse(token)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	return &Actor{UserID: claims.UserID, Role: claims.Role}, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, exp, err := s.tokenManager.Issue(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// dummyPasswordHash bcrypt-хеш для сравнения при неизвестном email.
func dummyPasswordHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	})
	return dummyHash
}
