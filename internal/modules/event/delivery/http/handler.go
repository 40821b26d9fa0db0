package handler

import (
	"net/http"

	"folklorika.bg/backend/internal/modules/event/dto"
	"folklorika.bg/backend/internal/modules/event/service"
	"folklorika.bg/backend/pkg/response"
	"folklorika.bg/backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
	logger  *zap.Logger
}

func NewEventHandler(service service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{service: service, logger: logger}
}

// List returns the public feed of upcoming approved events.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) Detail(c *gin.Context) {
	event, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Mine(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"events": summaries})
}

func (h *EventHandler) Create(c *gin.Context) {
	var input dto.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	event, err := h.service.Create(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Събитието е изпратено за одобрение",
		"event":   event,
	})
}
