package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository/common"
)

// FoundationRepository отвечает за работу с таблицей foundations.
type FoundationRepository struct {
	db *sqlx.DB
}

// NewFoundationRepository создаёт экземпляр репозитория.
func NewFoundationRepository(db *sqlx.DB) *FoundationRepository {
	return &FoundationRepository{db: db}
}

// Create сохраняет профиль фонда.
func (r *FoundationRepository) Create(ctx context.Context, f *models.Foundation) error {
	query := `
		INSERT INTO foundations (id, owner_id, name, city, address, phone, email, website, image_url, about, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :city, :address, :phone, :email, :website, :image_url, :about, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("foundation repository: create %w", err)
	}
	return nil
}

// GetByID возвращает фонд по идентификатору.
func (r *FoundationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Foundation, error) {
	return common.GetByID[models.Foundation](ctx, r.db, "foundations", id, ErrFoundationNotFound)
}

// List возвращает страницу фондов, новые первыми, и общее количество.
func (r *FoundationRepository) List(ctx context.Context, page Page) ([]models.Foundation, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM foundations`); err != nil {
		return nil, 0, fmt.Errorf("foundation repository: count %w", err)
	}

	foundations := make([]models.Foundation, 0, page.Limit())
	query := `SELECT * FROM foundations ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &foundations, query, page.Limit(), page.Offset()); err != nil {
		return nil, 0, fmt.Errorf("foundation repository: list %w", err)
	}
	return foundations, total, nil
}
