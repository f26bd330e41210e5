package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/pata-backend/internal/dto"
	"github.com/ignatzorin/pata-backend/internal/http/handlers/common"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/service"
)

// ListingHandler обслуживает публичные маршруты публикаций и действия владельца.
type ListingHandler struct {
	listings *service.ListingService
}

// NewListingHandler создаёт хэндлер.
func NewListingHandler(listings *service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Create обрабатывает POST /listings. Анонимная публикация допускается.
func (h *ListingHandler) Create(c *gin.Context) {
	var req dto.CreateListingRequest
	if err := common.BindStrict(c, &req); err != nil {
		common.RespondAppError(c, err)
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), common.CurrentActor(c), req.ToInput())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// List обрабатывает GET /listings: только одобренные публикации.
func (h *ListingHandler) List(c *gin.Context) {
	filter, err := common.ParseListingFilter(c)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	page, err := common.ParsePage(c)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	result, err := h.listings.ListPublic(c.Request.Context(), filter, page)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListByType обрабатывает GET /listings/type/:type.
func (h *ListingHandler) ListByType(c *gin.Context) {
	pubType := models.PublicationType(c.Param("type"))
	if !pubType.Valid() {
		common.RespondAppError(c, apperror.New(apperror.ErrCodeInvalidInput, "tipo de publicación inválido: debe ser adoption o lost"))
		return
	}

	filter, err := common.ParseListingFilter(c)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	filter.PublicationType = pubType

	page, err := common.ParsePage(c)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	result, err := h.listings.ListPublic(c.Request.Context(), filter, page)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListMine обрабатывает GET /listings/mine.
func (h *ListingHandler) ListMine(c *gin.Context) {
	filter, err := common.ParseListingFilter(c)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	page, err := common.ParsePage(c)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	result, err := h.listings.ListMine(c.Request.Context(), common.CurrentActor(c), filter, page)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get обрабатывает GET /listings/:id с учётом прав смотрящего.
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	listing, err := h.listings.Get(c.Request.Context(), common.CurrentActor(c), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// MarkAdopted обрабатывает PATCH /listings/:id/adopt.
func (h *ListingHandler) MarkAdopted(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	listing, err := h.listings.MarkAdopted(c.Request.Context(), common.CurrentActor(c), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// MarkFound обрабатывает PATCH /listings/:id/found.
func (h *ListingHandler) MarkFound(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	listing, err := h.listings.MarkFound(c.Request.Context(), common.CurrentActor(c), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Contact обрабатывает POST /listings/:id/contact.
func (h *ListingHandler) Contact(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	var req dto.ContactOwnerRequest
	if err := common.BindStrict(c, &req); err != nil {
		common.RespondAppError(c, err)
		return
	}

	if err := h.listings.ContactOwner(c.Request.Context(), id, req.ToInput()); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.SuccessResponse{Message: "mensaje enviado"})
}

// Stats обрабатывает GET /listings/stats.
func (h *ListingHandler) Stats(c *gin.Context) {
	stats, err := h.listings.Stats(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
