package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/pata-backend/internal/dto"
	"github.com/ignatzorin/pata-backend/internal/http/handlers/common"
	"github.com/ignatzorin/pata-backend/internal/service"
)

// AdminHandler обслуживает очередь модерации.
type AdminHandler struct {
	listings *service.ListingService
}

// NewAdminHandler создаёт хэндлер.
func NewAdminHandler(listings *service.ListingService) *AdminHandler {
	return &AdminHandler{listings: listings}
}

// ListListings обрабатывает GET /admin/listings?state=pending|approved|rejected|all.
func (h *AdminHandler) ListListings(c *gin.Context) {
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

	result, err := h.listings.ListAdmin(c.Request.Context(), common.CurrentActor(c), c.Query("state"), filter, page)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Approve обрабатывает PATCH /admin/listings/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	listing, err := h.listings.Approve(c.Request.Context(), common.CurrentActor(c), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Reject обрабатывает PATCH /admin/listings/:id/reject с телом {reason}.
func (h *AdminHandler) Reject(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	var req dto.RejectListingRequest
	if err := common.BindStrict(c, &req); err != nil {
		common.RespondAppError(c, err)
		return
	}

	listing, err := h.listings.Reject(c.Request.Context(), common.CurrentActor(c), id, req.Reason)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}
