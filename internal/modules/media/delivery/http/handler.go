package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"folklorika.bg/backend/pkg/response"
	"folklorika.bg/backend/pkg/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadSize caps image uploads at 5 MB.
const maxUploadSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaHandler accepts image uploads for association and event imagery and
// returns the hosted URL, which clients put into image_url on submission.
type MediaHandler struct {
	storage storage.ImageStorage
	folder  string
	logger  *zap.Logger
}

func NewMediaHandler(st storage.ImageStorage, folder string, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{storage: st, folder: folder, logger: logger}
}

func (h *MediaHandler) Upload(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Качването на изображения не е налично в момента",
		})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Моля изберете изображение"})
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Изображението е твърде голямо (максимум 5MB)",
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Неподдържан формат. Разрешени са: JPG, PNG, GIF, WEBP",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}
	defer file.Close()

	url, err := h.storage.UploadImage(c.Request.Context(), file, h.folder, fileHeader.Filename)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
