package mongostore

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ignatzorin/pata-backend/internal/repository"
)

// wrapError переводит ошибки MongoDB в ошибки хранилища.
func wrapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "email"):
			return repository.ErrDuplicateEmail
		case strings.Contains(msg, "national_id"):
			return repository.ErrDuplicateNationalID
		}
		return repository.ErrDuplicate
	}
	return err
}

// findOne ищет один документ; отсутствие документа возвращается как notFound.
func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D, notFound error) (*T, error) {
	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, wrapError(err, notFound)
	}
	return &result, nil
}

// findMany ищет несколько документов.
func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(err, nil)
	}
	defer cursor.Close(ctx)

	results := []T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// newestFirst порядок выдачи: created_at DESC, при равенстве _id DESC.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// pageOptions задаёт сортировку newestFirst и окно страницы.
func pageOptions(page repository.Page) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(newestFirst).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit()))
}

func idString(id uuid.UUID) string {
	return id.String()
}

func optionalIDString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// parseID разбирает строковый _id. Повреждённый id превращается в uuid.Nil.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseOptionalID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id := parseID(*s)
	return &id
}
