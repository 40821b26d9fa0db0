package handler

import (
	"net/http"

	"folklorika.bg/backend/internal/modules/association/dto"
	"folklorika.bg/backend/internal/modules/association/service"
	"folklorika.bg/backend/pkg/response"
	"folklorika.bg/backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssociationHandler struct {
	service service.AssociationService
	logger  *zap.Logger
}

func NewAssociationHandler(service service.AssociationService, logger *zap.Logger) *AssociationHandler {
	return &AssociationHandler{service: service, logger: logger}
}

// List returns every approved association with its event and member counts.
func (h *AssociationHandler) List(c *gin.Context) {
	items, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"associations": items})
}

func (h *AssociationHandler) Detail(c *gin.Context) {
	detail, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *AssociationHandler) Mine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	summaries, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"associations": summaries})
}

func (h *AssociationHandler) Create(c *gin.Context) {
	var input dto.CreateAssociationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	association, err := h.service.Create(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Сдружението е изпратено за одобрение",
		"association": association,
	})
}
