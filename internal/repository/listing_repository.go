package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository/common"
)

// listingColumns раскладывает контакт по вложенной структуре Contact.
const listingColumns = `
	id, publication_type, moderation_state, rejection_reason, reviewer_id, reviewed_at,
	owner_id, adoption_state, lost_state,
	name, species, breed, sex, age, size, microchip, vaccinated, dewormed, sterilized,
	health, region, commune, description, image_url, location, latitude, longitude,
	contact_name AS "contact.name", contact_phone AS "contact.phone",
	contact_email AS "contact.email", contact_social AS "contact.social",
	created_at, updated_at
`

// ListingRepository отвечает за работу с таблицей listings.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository создаёт экземпляр репозитория.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create сохраняет новую публикацию. ID и CreatedAt заполняет сервис.
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) error {
	query := `
		INSERT INTO listings (
			id, publication_type, moderation_state, rejection_reason, reviewer_id, reviewed_at,
			owner_id, adoption_state, lost_state,
			name, species, breed, sex, age, size, microchip, vaccinated, dewormed, sterilized,
			health, region, commune, description, image_url, location, latitude, longitude,
			contact_name, contact_phone, contact_email, contact_social,
			created_at, updated_at
		) VALUES (
			:id, :publication_type, :moderation_state, :rejection_reason, :reviewer_id, :reviewed_at,
			:owner_id, :adoption_state, :lost_state,
			:name, :species, :breed, :sex, :age, :size, :microchip, :vaccinated, :dewormed, :sterilized,
			:health, :region, :commune, :description, :image_url, :location, :latitude, :longitude,
			:contact.name, :contact.phone, :contact.email, :contact.social,
			:created_at, :updated_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		return fmt.Errorf("listing repository: create %w", err)
	}
	return nil
}

// GetByID возвращает публикацию по идентификатору.
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var l models.Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("listing repository: get by id %w", err)
	}
	return &l, nil
}

// Update перезаписывает изменяемые поля публикации целиком.
// Параллельные записи не синхронизируются: побеждает последняя.
func (r *ListingRepository) Update(ctx context.Context, l *models.Listing) error {
	query := `
		UPDATE listings SET
			moderation_state = :moderation_state,
			rejection_reason = :rejection_reason,
			reviewer_id = :reviewer_id,
			reviewed_at = :reviewed_at,
			adoption_state = :adoption_state,
			lost_state = :lost_state,
			name = :name, species = :species, breed = :breed, sex = :sex, age = :age, size = :size,
			microchip = :microchip, vaccinated = :vaccinated, dewormed = :dewormed, sterilized = :sterilized,
			health = :health, region = :region, commune = :commune, description = :description,
			image_url = :image_url, location = :location, latitude = :latitude, longitude = :longitude,
			contact_name = :contact.name, contact_phone = :contact.phone,
			contact_email = :contact.email, contact_social = :contact.social,
			updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, l)
	if err != nil {
		return fmt.Errorf("listing repository: update %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("listing repository: update rows affected %w", err)
	}
	if rowsAffected == 0 {
		return ErrListingNotFound
	}
	return nil
}

// buildListingWhere собирает WHERE по фильтру. Возвращает условие и аргументы.
func buildListingWhere(f ListingFilter) (string, []interface{}) {
	var (
		clauses  = []string{"1=1"}
		args     []interface{}
		argIndex = 1
	)

	add := func(format string, value interface{}) {
		clauses = append(clauses, fmt.Sprintf(format, argIndex))
		args = append(args, value)
		argIndex++
	}

	if f.PublicationType != "" {
		add("publication_type = $%d", string(f.PublicationType))
	}
	if f.ModerationState != "" {
		add("moderation_state = $%d", string(f.ModerationState))
	}
	if f.Region != "" {
		add("region = $%d", f.Region)
	}
	if f.Commune != "" {
		add("commune = $%d", f.Commune)
	}
	if f.OwnerID != nil {
		add("owner_id = $%d", *f.OwnerID)
	}
	if !f.IncludeAdopted {
		clauses = append(clauses, "adoption_state <> 'adopted'")
	}
	if !f.IncludeFound {
		clauses = append(clauses, "lost_state <> 'found'")
	}

	return strings.Join(clauses, " AND "), args
}

// listingOrder порядок выдачи: новые первыми, при равном created_at больший id первым.
const listingOrder = "created_at DESC, id DESC"

// buildListingPageQuery собирает SELECT страницы. LIMIT и OFFSET идут после argCount аргументов фильтра.
func buildListingPageQuery(where string, argCount int) string {
	return fmt.Sprintf(
		`SELECT %s FROM listings WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		listingColumns, where, listingOrder, argCount+1, argCount+2,
	)
}

// List возвращает страницу публикаций и общее количество по фильтру.
// Порядок: created_at DESC, id DESC. Подсчёт и выборка читают один снимок данных.
func (r *ListingRepository) List(ctx context.Context, f ListingFilter, page Page) ([]models.Listing, int, error) {
	where, args := buildListingWhere(f)

	page = page.Normalize()
	query := buildListingPageQuery(where, len(args))

	var (
		total    int
		listings = make([]models.Listing, 0, page.Size)
	)
	err := common.WithTransaction(ctx, r.db, common.ReadSnapshot, func(tx *sqlx.Tx) error {
		var err error
		if total, err = r.count(ctx, tx, where, args); err != nil {
			return err
		}
		if err := tx.SelectContext(ctx, &listings, query, append(args, page.Limit(), page.Offset())...); err != nil {
			return fmt.Errorf("listing repository: list %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// Count возвращает количество публикаций по фильтру.
func (r *ListingRepository) Count(ctx context.Context, f ListingFilter) (int, error) {
	where, args := buildListingWhere(f)
	return r.count(ctx, r.db, where, args)
}

func (r *ListingRepository) count(ctx context.Context, q sqlx.QueryerContext, where string, args []interface{}) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, q, &total, `SELECT COUNT(*) FROM listings WHERE `+where, args...); err != nil {
		return 0, fmt.Errorf("listing repository: count %w", err)
	}
	return total, nil
}
