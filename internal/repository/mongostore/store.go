// Package mongostore реализует хранилище PATA поверх MongoDB.
//
// Идентификаторы хранятся в _id как строковое представление UUID, чтобы
// сравнение владельца оставалось простым равенством на границе хранилища.
package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ignatzorin/pata-backend/internal/logger"
)

// Имена коллекций.
const (
	ColListings      = "listings"
	ColUsers         = "users"
	ColFoundations   = "foundations"
	ColNotifications = "notifications"
	ColMedia         = "media_files"
)

// Store объединяет коллекции одной базы данных.
type Store struct {
	db *mongo.Database
}

// NewStore создаёт хранилище и индексы. Ошибка создания индексов только логируется.
func NewStore(ctx context.Context, db *mongo.Database) *Store {
	s := &Store{db: db}
	if err := s.EnsureIndexes(ctx); err != nil {
		logger.Get().WithError(err).Warn("mongostore: no se pudieron crear los índices")
	}
	return s
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Ping проверяет доступность сервера.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Listings возвращает хранилище публикаций.
func (s *Store) Listings() *ListingStore {
	return &ListingStore{col: s.col(ColListings)}
}

// Users возвращает хранилище пользователей.
func (s *Store) Users() *UserStore {
	return &UserStore{col: s.col(ColUsers)}
}

// Foundations возвращает хранилище фондов.
func (s *Store) Foundations() *FoundationStore {
	return &FoundationStore{col: s.col(ColFoundations)}
}

// Notifications возвращает хранилище уведомлений.
func (s *Store) Notifications() *NotificationStore {
	return &NotificationStore{col: s.col(ColNotifications)}
}

// Media возвращает хранилище метаданных файлов.
func (s *Store) Media() *MediaStore {
	return &MediaStore{col: s.col(ColMedia)}
}

// EnsureIndexes создаёт все необходимые индексы.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColListings, bson.D{
			{Key: "moderation_state", Value: 1},
			{Key: "publication_type", Value: 1},
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}, false},
		{ColListings, bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
		{ColListings, bson.D{{Key: "region", Value: 1}, {Key: "commune", Value: 1}}, false},

		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "national_id", Value: 1}}, true},

		{ColFoundations, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, false},

		{ColNotifications, bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
