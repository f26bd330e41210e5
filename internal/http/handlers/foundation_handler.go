package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/pata-backend/internal/dto"
	"github.com/ignatzorin/pata-backend/internal/http/handlers/common"
	"github.com/ignatzorin/pata-backend/internal/service"
)

// FoundationHandler обслуживает каталог фондов.
type FoundationHandler struct {
	foundations *service.FoundationService
}

// NewFoundationHandler создаёт хэндлер.
func NewFoundationHandler(foundations *service.FoundationService) *FoundationHandler {
	return &FoundationHandler{foundations: foundations}
}

// List обрабатывает GET /foundations.
func (h *FoundationHandler) List(c *gin.Context) {
	page, err := common.ParsePage(c)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	result, err := h.foundations.List(c.Request.Context(), page)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get обрабатывает GET /foundations/:id.
func (h *FoundationHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	foundation, err := h.foundations.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, foundation)
}

// Create обрабатывает POST /foundations.
func (h *FoundationHandler) Create(c *gin.Context) {
	var req dto.CreateFoundationRequest
	if err := common.BindStrict(c, &req); err != nil {
		common.RespondAppError(c, err)
		return
	}

	foundation, err := h.foundations.Create(c.Request.Context(), common.CurrentActor(c), req.ToInput())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, foundation)
}
