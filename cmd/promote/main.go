// Команда promote выдаёт пользователю роль администратора.
//
//	go run ./cmd/promote -email admin@pata.cl
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/pata-backend/internal/config"
	"github.com/ignatzorin/pata-backend/internal/db"
	"github.com/ignatzorin/pata-backend/internal/logger"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/repository/mongostore"
	"github.com/ignatzorin/pata-backend/internal/validation"
)

type roleUpdater interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
}

func main() {
	email := flag.String("email", "", "correo del usuario a promover")
	role := flag.String("role", string(models.RoleAdmin), "rol a asignar: user o admin")
	flag.Parse()

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}
	target := models.Role(*role)
	if target != models.RoleAdmin && target != models.RoleUser {
		log.Fatalf("promote: rol desconocido %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("promote: %v", err)
	}
	logger.Init(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, closeFn, err := openUsers(ctx, cfg)
	if err != nil {
		log.Fatalf("promote: %v", err)
	}
	defer closeFn()

	if err := promote(ctx, users, *email, target); err != nil {
		log.Fatalf("promote: %v", err)
	}
	fmt.Printf("usuario %s ahora tiene el rol %s\n", validation.NormalizeEmail(*email), target)
}

func promote(ctx context.Context, users roleUpdater, email string, role models.Role) error {
	user, err := users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("no existe un usuario con correo %s", email)
		}
		return err
	}
	if user.Role == role {
		return nil
	}
	return users.UpdateRole(ctx, user.ID, role)
}

func openUsers(ctx context.Context, cfg *config.Config) (roleUpdater, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMongo {
		database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return mongostore.NewStore(ctx, database).Users(), func() { _ = db.CloseMongo(database) }, nil
	}

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: time.Minute})
	if err != nil {
		return nil, nil, err
	}
	return repository.NewUserRepository(conn), func() { _ = conn.Close() }, nil
}
