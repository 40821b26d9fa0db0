package handler

import (
	"net/http"

	"folklorika.bg/backend/internal/modules/user/dto"
	userService "folklorika.bg/backend/internal/modules/user/service"
	"folklorika.bg/backend/pkg/response"
	"folklorika.bg/backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service     userService.AuthService
	google      userService.GoogleAuthService
	frontendURL string
	logger      *zap.Logger
}

func NewAuthHandler(service userService.AuthService, google userService.GoogleAuthService, frontendURL string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:     service,
		google:      google,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	user, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Успешна регистрация", "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Verify consumes the emailed token and redirects back to the sign-in page
// with the outcome in a query parameter.
func (h *AuthHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, h.frontendURL+"/auth/signin?error=invalid-token")
		return
	}

	status, err := h.service.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		c.Redirect(http.StatusFound, h.frontendURL+"/auth/signin?error=invalid-token")
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL+"/auth/signin?verified="+status)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.New().String()
	c.Redirect(http.StatusFound, h.google.LoginURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	res, err := h.google.Callback(c.Request.Context(), code)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input dto.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ако този email е регистриран, ще получите инструкции за нулиране на паролата.",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input dto.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), input); err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Паролата е променена успешно. Можете да влезете с новата парола.",
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input dto.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, input); err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Паролата е сменена успешно"})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
