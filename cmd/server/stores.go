package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/pata-backend/internal/config"
	"github.com/ignatzorin/pata-backend/internal/db"
	httpHandlers "github.com/ignatzorin/pata-backend/internal/http/handlers"
	"github.com/ignatzorin/pata-backend/internal/logger"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/repository/mongostore"
	"github.com/ignatzorin/pata-backend/internal/service"
)

// userStore покрывает потребности auth, seed и модерации.
type userStore interface {
	service.AuthRepository
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
}

// stores набор репозиториев выбранного драйвера.
type stores struct {
	users         userStore
	listings      service.ListingRepository
	foundations   service.FoundationRepository
	notifications service.NotificationRepository
	media         service.MediaRepository
	checks        map[string]httpHandlers.Pinger
	close         func()
}

// openStores подключается к хранилищу по cfg.StorageDriver.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMongo:
		database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		store := mongostore.NewStore(ctx, database)
		return &stores{
			users:         store.Users(),
			listings:      store.Listings(),
			foundations:   store.Foundations(),
			notifications: store.Notifications(),
			media:         store.Media(),
			checks:        map[string]httpHandlers.Pinger{"mongo": httpHandlers.PingFunc(store.Ping)},
			close: func() {
				if err := db.CloseMongo(database); err != nil {
					logger.Get().WithError(err).Warn("main: error al cerrar mongo")
				}
			},
		}, nil
	default:
		conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPool)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
			safeClose(conn)
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		return &stores{
			users:         repository.NewUserRepository(conn),
			listings:      repository.NewListingRepository(conn),
			foundations:   repository.NewFoundationRepository(conn),
			notifications: repository.NewNotificationRepository(conn),
			media:         repository.NewMediaRepository(conn),
			checks:        map[string]httpHandlers.Pinger{"postgres": conn},
			close:         func() { safeClose(conn) },
		}, nil
	}
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Get().WithError(err).Warn("main: error al cerrar la base de datos")
	}
}
