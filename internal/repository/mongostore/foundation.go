package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
)

type foundationDoc struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"owner_id"`
	Name      string    `bson:"name"`
	City      string    `bson:"city"`
	Address   string    `bson:"address"`
	Phone     string    `bson:"phone"`
	Email     string    `bson:"email"`
	Website   string    `bson:"website"`
	ImageURL  string    `bson:"image_url"`
	About     string    `bson:"about"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *foundationDoc) toModel() models.Foundation {
	return models.Foundation{
		ID:        parseID(d.ID),
		OwnerID:   parseID(d.OwnerID),
		Name:      d.Name,
		City:      d.City,
		Address:   d.Address,
		Phone:     d.Phone,
		Email:     d.Email,
		Website:   d.Website,
		ImageURL:  d.ImageURL,
		About:     d.About,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// FoundationStore хранит фонды в коллекции foundations.
type FoundationStore struct {
	col *mongo.Collection
}

// Create сохраняет профиль фонда.
func (s *FoundationStore) Create(ctx context.Context, f *models.Foundation) error {
	doc := foundationDoc{
		ID:        idString(f.ID),
		OwnerID:   idString(f.OwnerID),
		Name:      f.Name,
		City:      f.City,
		Address:   f.Address,
		Phone:     f.Phone,
		Email:     f.Email,
		Website:   f.Website,
		ImageURL:  f.ImageURL,
		About:     f.About,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongostore: create foundation: %w", wrapError(err, nil))
	}
	return nil
}

// GetByID возвращает фонд по идентификатору.
func (s *FoundationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Foundation, error) {
	doc, err := findOne[foundationDoc](ctx, s.col, bson.D{{Key: "_id", Value: idString(id)}}, repository.ErrFoundationNotFound)
	if err != nil {
		return nil, err
	}
	f := doc.toModel()
	return &f, nil
}

// List возвращает страницу фондов, новые первыми, и общее количество.
func (s *FoundationStore) List(ctx context.Context, page repository.Page) ([]models.Foundation, int, error) {
	total, err := s.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("mongostore: count foundations: %w", err)
	}

	docs, err := findMany[foundationDoc](ctx, s.col, bson.D{}, pageOptions(page))
	if err != nil {
		return nil, 0, fmt.Errorf("mongostore: list foundations: %w", err)
	}

	foundations := make([]models.Foundation, 0, len(docs))
	for i := range docs {
		foundations = append(foundations, docs[i].toModel())
	}
	return foundations, int(total), nil
}
