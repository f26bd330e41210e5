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

type mediaDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	FilePath  string    `bson:"file_path"`
	FileType  string    `bson:"file_type"`
	FileSize  int64     `bson:"file_size"`
	CreatedAt time.Time `bson:"created_at"`
}

// MediaStore хранит метаданные загруженных файлов.
type MediaStore struct {
	col *mongo.Collection
}

// Create сохраняет запись о файле.
func (s *MediaStore) Create(ctx context.Context, m *models.MediaFile) error {
	doc := mediaDoc{
		ID:        idString(m.ID),
		UserID:    idString(m.UserID),
		FilePath:  m.FilePath,
		FileType:  m.FileType,
		FileSize:  m.FileSize,
		CreatedAt: m.CreatedAt,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongostore: create media: %w", wrapError(err, nil))
	}
	return nil
}

// GetByID возвращает запись о файле.
func (s *MediaStore) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	doc, err := findOne[mediaDoc](ctx, s.col, bson.D{{Key: "_id", Value: idString(id)}}, repository.ErrMediaNotFound)
	if err != nil {
		return nil, err
	}
	return &models.MediaFile{
		ID:        parseID(doc.ID),
		UserID:    parseID(doc.UserID),
		FilePath:  doc.FilePath,
		FileType:  doc.FileType,
		FileSize:  doc.FileSize,
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}

// Delete удаляет запись о файле.
func (s *MediaStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: idString(id)}})
	if err != nil {
		return fmt.Errorf("mongostore: delete media: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrMediaNotFound
	}
	return nil
}
