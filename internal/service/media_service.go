package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/pata-backend/internal/logger"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/storage"
)

// Разрешённые типы изображений и их расширения.
var allowedImageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// MediaRepository описывает хранилище метаданных файлов.
type MediaRepository interface {
	Create(ctx context.Context, media *models.MediaFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PhotoStore описывает файловое хранилище.
type PhotoStore interface {
	Save(ctx context.Context, userID uuid.UUID, ext string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
	URL(relativePath string) string
}

// MediaService загружает и удаляет фотографии питомцев.
type MediaService struct {
	repo  MediaRepository
	store PhotoStore
	now   func() time.Time
}

// NewMediaService создаёт сервис медиа.
func NewMediaService(repo MediaRepository, store PhotoStore) *MediaService {
	return &MediaService{
		repo:  repo,
		store: store,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// UploadPhoto проверяет расширение и реальный тип файла по магическим байтам и сохраняет его.
func (s *MediaService) UploadPhoto(ctx context.Context, actor *Actor, filename string, src io.ReadSeeker) (*models.MediaFile, error) {
	if actor.IsAnonymous() {
		return nil, apperror.ErrUnauthorized
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !extensionAllowed(ext) {
		return nil, apperror.New(apperror.ErrCodeInvalidInput,
			fmt.Sprintf("formato de archivo no soportado. Permitidos: %s", strings.Join(allowedExtensions(), ", ")))
	}

	header := make([]byte, 512)
	n, err := io.ReadFull(src, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, "no se pudo leer el archivo")
	}
	if n == 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "el archivo no puede estar vacío")
	}

	kind, err := filetype.Match(header[:n])
	if err != nil || kind == filetype.Unknown {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "no se pudo determinar el tipo de archivo. Solo se permiten imágenes")
	}

	contentType := kind.MIME.Value
	exts, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, fmt.Sprintf("tipo de archivo no soportado (%s)", contentType))
	}
	if !contains(exts, ext) {
		return nil, apperror.New(apperror.ErrCodeInvalidInput,
			fmt.Sprintf("la extensión del archivo (%s) no coincide con su tipo real (%s)", ext, contentType))
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperror.Internal(fmt.Errorf("media service: seek %w", err))
	}

	relativePath, size, err := s.store.Save(ctx, actor.UserID, ext, src)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, apperror.New(apperror.ErrCodeInvalidInput, "el archivo supera el tamaño máximo permitido")
		}
		return nil, apperror.Internal(fmt.Errorf("media service: save %w", err))
	}

	media := &models.MediaFile{
		ID:        uuid.New(),
		UserID:    actor.UserID,
		FilePath:  relativePath,
		FileType:  contentType,
		FileSize:  size,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, media); err != nil {
		if delErr := s.store.Delete(ctx, relativePath); delErr != nil {
			logger.Get().WithFields(logrus.Fields{
				"path":  relativePath,
				"error": delErr,
			}).Warn("no se pudo eliminar el archivo huérfano")
		}
		return nil, apperror.Internal(fmt.Errorf("media service: create %w", err))
	}

	media.URL = s.store.URL(relativePath)
	return media, nil
}

// Delete удаляет файл. Удалять может только загрузивший его пользователь.
func (s *MediaService) Delete(ctx context.Context, actor *Actor, id uuid.UUID) error {
	if actor.IsAnonymous() {
		return apperror.ErrUnauthorized
	}

	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			return apperror.ErrMediaNotFound
		}
		return apperror.Internal(fmt.Errorf("media service: get %w", err))
	}

	if media.UserID != actor.UserID {
		return apperror.New(apperror.ErrCodeForbidden, "no tienes permiso para eliminar este archivo")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			return apperror.ErrMediaNotFound
		}
		return apperror.Internal(fmt.Errorf("media service: delete %w", err))
	}

	if err := s.store.Delete(ctx, media.FilePath); err != nil {
		return apperror.Internal(fmt.Errorf("media service: delete file %w", err))
	}
	return nil
}

func extensionAllowed(ext string) bool {
	for _, exts := range allowedImageTypes {
		if contains(exts, ext) {
			return true
		}
	}
	return false
}

func allowedExtensions() []string {
	var out []string
	for _, exts := range allowedImageTypes {
		out = append(out, exts...)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
