package mongostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	NationalID   string    `bson:"national_id"`
	Phone        string    `bson:"phone"`
	Region       string    `bson:"region"`
	Commune      string    `bson:"commune"`
	Social       string    `bson:"social"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d *userDoc) toModel() *models.User {
	return &models.User{
		ID:           parseID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		NationalID:   d.NationalID,
		Phone:        d.Phone,
		Region:       d.Region,
		Commune:      d.Commune,
		Social:       d.Social,
		Role:         models.Role(d.Role),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// UserStore хранит пользователей в коллекции users.
// Email хранится в нижнем регистре, уникальность обеспечивает индекс.
type UserStore struct {
	col *mongo.Collection
}

// Create сохраняет нового пользователя.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	doc := userDoc{
		ID:           idString(u.ID),
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		NationalID:   u.NationalID,
		Phone:        u.Phone,
		Region:       u.Region,
		Commune:      u.Commune,
		Social:       u.Social,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return wrapError(err, nil)
	}
	return nil
}

func (s *UserStore) getOne(ctx context.Context, filter bson.D) (*models.User, error) {
	doc, err := findOne[userDoc](ctx, s.col, filter, repository.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// GetByID возвращает пользователя по идентификатору.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getOne(ctx, bson.D{{Key: "_id", Value: idString(id)}})
}

// GetByEmail возвращает пользователя по email без учёта регистра.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getOne(ctx, bson.D{{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))}})
}

// GetByNationalID возвращает пользователя по нормализованному RUT.
func (s *UserStore) GetByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	return s.getOne(ctx, bson.D{{Key: "national_id", Value: nationalID}})
}

// UpdateRole меняет роль пользователя.
func (s *UserStore) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: idString(id)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "role", Value: string(role)},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	)
	if err != nil {
		return fmt.Errorf("mongostore: update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}
