package handler

import (
	"net/http"

	"folklorika.bg/backend/internal/modules/moderation/service"
	"folklorika.bg/backend/pkg/apperror"
	"folklorika.bg/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ModerationHandler struct {
	service service.ModerationService
	logger  *zap.Logger
}

func NewModerationHandler(service service.ModerationService, logger *zap.Logger) *ModerationHandler {
	return &ModerationHandler{service: service, logger: logger}
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.New(http.StatusBadRequest,
			"Невалиден идентификатор", apperror.ErrInvalidInput)
	}
	return id, nil
}

func (h *ModerationHandler) PendingAssociations(c *gin.Context) {
	items, err := h.service.PendingAssociations(c.Request.Context())
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"associations": items})
}

func (h *ModerationHandler) ApproveAssociation(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	if err := h.service.ApproveAssociation(c.Request.Context(), id); err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Сдружението е одобрено"})
}

func (h *ModerationHandler) RejectAssociation(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	if err := h.service.RejectAssociation(c.Request.Context(), id); err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Сдружението е отхвърлено"})
}

func (h *ModerationHandler) PendingEvents(c *gin.Context) {
	events, err := h.service.PendingEvents(c.Request.Context())
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *ModerationHandler) ApproveEvent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	if err := h.service.ApproveEvent(c.Request.Context(), id); err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Събитието е одобрено"})
}

func (h *ModerationHandler) RejectEvent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	if err := h.service.RejectEvent(c.Request.Context(), id); err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Събитието е отхвърлено"})
}

func (h *ModerationHandler) Users(c *gin.Context) {
	users, err := h.service.Users(c.Request.Context())
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// SendGreetings serves both the admin button and the scheduled cron hit; the
// route wiring decides which guard sits in front.
func (h *ModerationHandler) SendGreetings(c *gin.Context) {
	report, err := h.service.SendGreetings(c.Request.Context())
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
