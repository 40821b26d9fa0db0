package response

import (
	"net/http"

	"folklorika.bg/backend/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// ResponseError standardized error response. Internal errors are logged with
// full detail server-side; the client only sees a localized generic message.
func ResponseError(c *gin.Context, logger *zap.Logger, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("internal error",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
		c.JSON(code, gin.H{"error": "Възникна вътрешна грешка. Моля опитайте отново."})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
