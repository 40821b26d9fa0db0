package handler

import (
	"net/http"

	"folklorika.bg/backend/internal/modules/search/service"
	"folklorika.bg/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	service service.SearchService
	logger  *zap.Logger
}

func NewSearchHandler(service service.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: logger}
}

// Search serves the public search box. An empty query returns empty result
// sets rather than an error.
func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.service.Search(c.Query("q"))
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
