package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/pata-backend/internal/http/handlers/common"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/service"
)

// MediaHandler управляет загрузкой и удалением фотографий.
type MediaHandler struct {
	media *service.MediaService
}

// NewMediaHandler создаёт новый хэндлер.
func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadPhoto обрабатывает POST /media/photos (multipart, поле file).
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		common.RespondAppError(c, apperror.New(apperror.ErrCodeMissingField, "falta el campo obligatorio file"))
		return
	}
	if file.Size == 0 {
		common.RespondAppError(c, apperror.New(apperror.ErrCodeInvalidInput, "el archivo no puede estar vacío"))
		return
	}

	src, err := file.Open()
	if err != nil {
		common.RespondAppError(c, apperror.Internal(err))
		return
	}
	defer src.Close()

	media, err := h.media.UploadPhoto(c.Request.Context(), common.CurrentActor(c), file.Filename, src)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, media)
}

// DeleteMedia обрабатывает DELETE /media/:id.
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	if err := h.media.Delete(c.Request.Context(), common.CurrentActor(c), id); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
