package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoStorage_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewPhotoStorage(root, "media", 1)
	require.NoError(t, err)

	userID := uuid.New()
	rel, size, err := s.Save(context.Background(), userID, ".PNG", bytes.NewReader([]byte("contenido")))
	require.NoError(t, err)
	assert.Equal(t, int64(9), size)
	assert.True(t, strings.HasPrefix(rel, userID.String()+"/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))
	assert.Equal(t, "/media/"+rel, s.URL(rel))

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), rel))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не ошибка
	require.NoError(t, s.Delete(context.Background(), rel))
}

func TestPhotoStorage_TooLarge(t *testing.T) {
	root := t.TempDir()
	s, err := NewPhotoStorage(root, "/media", 1)
	require.NoError(t, err)

	big := bytes.Repeat([]byte{'x'}, int(s.MaxBytes())+1)
	_, _, err = s.Save(context.Background(), uuid.New(), ".jpg", bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestPhotoStorage_DeleteRejectsTraversal(t *testing.T) {
	s, err := NewPhotoStorage(t.TempDir(), "/media", 1)
	require.NoError(t, err)

	assert.Error(t, s.Delete(context.Background(), "../../etc/passwd"))
}

func TestSanitizeExt(t *testing.T) {
	assert.Equal(t, ".jpg", sanitizeExt("JPG"))
	assert.Equal(t, ".webp", sanitizeExt(".webp"))
	assert.Equal(t, "", sanitizeExt("./../x"))
	assert.Equal(t, "", sanitizeExt(""))
}
