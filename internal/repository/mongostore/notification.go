package mongostore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
)

// payload хранится строкой JSON, чтобы не зависеть от формы события.
type notificationDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Payload   string    `bson:"payload"`
	IsRead    bool      `bson:"is_read"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d *notificationDoc) toModel() models.Notification {
	return models.Notification{
		ID:        parseID(d.ID),
		UserID:    parseID(d.UserID),
		Payload:   json.RawMessage(d.Payload),
		IsRead:    d.IsRead,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// NotificationStore хранит уведомления в коллекции notifications.
type NotificationStore struct {
	col *mongo.Collection
}

// Create сохраняет уведомление.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	doc := notificationDoc{
		ID:        idString(n.ID),
		UserID:    idString(n.UserID),
		Payload:   string(n.Payload),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongostore: create notification: %w", wrapError(err, nil))
	}
	return nil
}

// List возвращает уведомления пользователя, новые первыми.
func (s *NotificationStore) List(ctx context.Context, userID uuid.UUID, page repository.Page, unreadOnly bool) ([]models.Notification, error) {
	filter := bson.D{{Key: "user_id", Value: idString(userID)}}
	if unreadOnly {
		filter = append(filter, bson.E{Key: "is_read", Value: false})
	}

	docs, err := findMany[notificationDoc](ctx, s.col, filter, pageOptions(page))
	if err != nil {
		return nil, fmt.Errorf("mongostore: list notifications: %w", err)
	}

	notifications := make([]models.Notification, 0, len(docs))
	for i := range docs {
		notifications = append(notifications, docs[i].toModel())
	}
	return notifications, nil
}

// MarkAsRead отмечает уведомление пользователя как прочитанное.
func (s *NotificationStore) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: idString(id)}, {Key: "user_id", Value: idString(userID)}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "is_read", Value: true}}}},
	)
	if err != nil {
		return fmt.Errorf("mongostore: mark as read: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (s *NotificationStore) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	_, err := s.col.UpdateMany(ctx,
		bson.D{{Key: "user_id", Value: idString(userID)}, {Key: "is_read", Value: false}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "is_read", Value: true}}}},
	)
	if err != nil {
		return fmt.Errorf("mongostore: mark all as read: %w", err)
	}
	return nil
}

// CountUnread возвращает количество непрочитанных уведомлений пользователя.
func (s *NotificationStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.col.CountDocuments(ctx, bson.D{{Key: "user_id", Value: idString(userID)}, {Key: "is_read", Value: false}})
	if err != nil {
		return 0, fmt.Errorf("mongostore: count unread: %w", err)
	}
	return int(count), nil
}
