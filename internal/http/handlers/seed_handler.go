package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/pata-backend/internal/dto"
	"github.com/ignatzorin/pata-backend/internal/http/handlers/common"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/service"
)

// SeedHandler обрабатывает запросы для генерации демо-данных.
type SeedHandler struct {
	seedService *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// Seed генерирует демо-данные.
// POST /api/seed?num_users=5&num_listings=30
func (h *SeedHandler) Seed(c *gin.Context) {
	req := dto.SeedRequest{NumUsers: 5, NumListings: 30}

	for key, dst := range map[string]*int{"num_users": &req.NumUsers, "num_listings": &req.NumListings} {
		raw, ok := c.GetQuery(key)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 500 {
			common.RespondAppError(c, apperror.New(apperror.ErrCodeInvalidInput, key+" debe estar entre 0 y 500"))
			return
		}
		*dst = v
	}

	result, err := h.seedService.SeedData(c.Request.Context(), req.NumUsers, req.NumListings)
	if err != nil {
		common.RespondAppError(c, apperror.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "datos de demostración generados",
		Data:    result,
	})
}
