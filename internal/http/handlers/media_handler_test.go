package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/pata-backend/internal/http/middleware"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/service"
	"github.com/ignatzorin/pata-backend/internal/storage"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0}, 64)...)

type memMedia struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.MediaFile
}

func (m *memMedia) Create(_ context.Context, f *models.MediaFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[f.ID] = *f
	return nil
}

func (m *memMedia) GetByID(_ context.Context, id uuid.UUID) (*models.MediaFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.items[id]
	if !ok {
		return nil, repository.ErrMediaNotFound
	}
	return &f, nil
}

func (m *memMedia) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrMediaNotFound
	}
	delete(m.items, id)
	return nil
}

func withActor(actor *service.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextActorKey, actor)
		}
		c.Next()
	}
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestMediaHandler_UploadAndDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	photos, err := storage.NewPhotoStorage(root, "/media", 1)
	require.NoError(t, err)

	repo := &memMedia{items: map[uuid.UUID]models.MediaFile{}}
	h := NewMediaHandler(service.NewMediaService(repo, photos))

	owner := &service.Actor{UserID: uuid.New(), Role: models.RoleUser}
	stranger := &service.Actor{UserID: uuid.New(), Role: models.RoleUser}

	upload := func(actor *service.Actor, filename string, content []byte) *httptest.ResponseRecorder {
		r := gin.New()
		r.POST("/media/photos", withActor(actor), h.UploadPhoto)
		body, contentType := multipartBody(t, filename, content)
		req := httptest.NewRequest(http.MethodPost, "/media/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	remove := func(actor *service.Actor, id string) int {
		r := gin.New()
		r.DELETE("/media/:id", withActor(actor), h.DeleteMedia)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/media/"+id, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, upload(nil, "firulais.png", pngBytes).Code)
	assert.Equal(t, http.StatusBadRequest, upload(owner, "firulais.jpg", pngBytes).Code)
	assert.Equal(t, http.StatusBadRequest, upload(owner, "notas.txt", []byte("hola")).Code)

	w := upload(owner, "firulais.png", pngBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	media := decode[models.MediaFile](t, w)
	assert.Equal(t, "image/png", media.FileType)
	assert.Contains(t, media.URL, "/media/"+owner.UserID.String()+"/")

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(media.FilePath)))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, remove(stranger, media.ID.String()))
	assert.Equal(t, http.StatusNoContent, remove(owner, media.ID.String()))
	assert.Equal(t, http.StatusNotFound, remove(owner, media.ID.String()))

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(media.FilePath)))
	assert.True(t, os.IsNotExist(err))
}

func TestMediaHandler_MissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMediaHandler(nil)
	r := gin.New()
	r.POST("/media/photos", h.UploadPhoto)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/media/photos", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FIELD", errorCode(t, w))
}
