package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"folklorika.bg/backend/internal/entity"
	"folklorika.bg/backend/internal/middleware"
	"folklorika.bg/backend/internal/modules/user/dto"
	"folklorika.bg/backend/internal/modules/user/repository"
	"folklorika.bg/backend/internal/notifier"
	"folklorika.bg/backend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.UserResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error
	ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error
	Profile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
}

type Options struct {
	JWTSecret   string
	TokenTTL    time.Duration
	BaseURL     string
	FrontendURL string
}

type authService struct {
	repo     repository.UserRepository
	notifier notifier.Notifier
	opts     Options
	logger   *zap.Logger
}

func NewAuthService(repo repository.UserRepository, n notifier.Notifier, opts Options, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	return &authService{
		repo:     repo,
		notifier: n,
		opts:     opts,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.UserResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.New(http.StatusBadRequest, "Този email вече е регистриран", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	passwordHash := string(hashed)

	rawToken, tokenHash, err := generateToken()
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:                 input.Email,
		Name:                  input.Name,
		PasswordHash:          &passwordHash,
		Provider:              entity.ProviderCredentials,
		Role:                  entity.RoleUser,
		VerificationTokenHash: &tokenHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	// The verification mail is the one send that must not be best-effort: an
	// account nobody can verify is worse than no account, so a failed send
	// rolls the registration back.
	verifyURL := s.opts.BaseURL + "/api/auth/verify?token=" + rawToken
	if err := s.notifier.VerificationEmail(ctx, user.Name, user.Email, verifyURL); err != nil {
		if delErr := s.repo.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("failed to roll back unverifiable registration",
				zap.String("email", user.Email), zap.Error(delErr))
		}
		return nil, apperror.New(http.StatusInternalServerError,
			"Грешка при изпращане на email. Моля опитайте отново.", err)
	}

	return userResponse(user), nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "Грешен имейл или парола", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, apperror.New(http.StatusBadRequest,
			"Този акаунт използва социален вход", apperror.ErrBadRequest)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Грешен имейл или парола", apperror.ErrUnauthorized)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (string, error) {
	user, err := s.repo.FindByVerificationTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.ErrNotFound
		}
		return "", err
	}

	if user.EmailVerified {
		return "already", nil
	}

	user.EmailVerified = true
	user.VerificationTokenHash = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return "", err
	}

	return "success", nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Don't reveal whether the email is registered.
			return nil
		}
		return err
	}

	if user.Provider != entity.ProviderCredentials || user.PasswordHash == nil {
		return apperror.New(http.StatusBadRequest,
			"Този акаунт е регистриран чрез социален вход. Използвайте го за достъп.", apperror.ErrBadRequest)
	}

	rawToken, tokenHash, err := generateToken()
	if err != nil {
		return err
	}

	expiry := time.Now().Add(resetTokenTTL)
	user.ResetTokenHash = &tokenHash
	user.ResetTokenExpiry = &expiry
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := s.opts.FrontendURL + "/auth/reset-password?token=" + rawToken
	if err := s.notifier.PasswordReset(ctx, user.Name, user.Email, resetURL); err != nil {
		// A token nobody received must not stay usable.
		user.ResetTokenHash = nil
		user.ResetTokenExpiry = nil
		if clearErr := s.repo.Update(ctx, user); clearErr != nil {
			s.logger.Error("failed to clear undelivered reset token",
				zap.String("email", user.Email), zap.Error(clearErr))
		}
		return apperror.New(http.StatusInternalServerError,
			"Грешка при изпращане на email. Моля опитайте отново.", err)
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	user, err := s.repo.FindByResetTokenHash(ctx, hashToken(input.Token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusBadRequest,
				"Невалиден или изтекъл линк за нулиране", apperror.ErrBadRequest)
		}
		return err
	}

	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now()) {
		user.ResetTokenHash = nil
		user.ResetTokenExpiry = nil
		if err := s.repo.Update(ctx, user); err != nil {
			return err
		}
		return apperror.New(http.StatusBadRequest,
			"Линкът за нулиране е изтекъл. Моля заявете нов.", apperror.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	passwordHash := string(hashed)

	user.PasswordHash = &passwordHash
	user.ResetTokenHash = nil
	user.ResetTokenExpiry = nil
	return s.repo.Update(ctx, user)
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if user.PasswordHash == nil {
		return apperror.New(http.StatusNotFound,
			"Потребителят използва социален вход", apperror.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return apperror.New(http.StatusBadRequest, "Текущата парола е грешна", apperror.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	passwordHash := string(hashed)

	user.PasswordHash = &passwordHash
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	// The notice is a courtesy; its failure must not fail the change.
	go func(name, email string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.PasswordChanged(ctx, name, email); err != nil {
			s.logger.Warn("failed to send password change notice",
				zap.String("email", email), zap.Error(err))
		}
	}(user.Name, user.Email)

	return nil
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	events, err := s.repo.CountCreatedEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	associations, err := s.repo.CountOwnedAssociations(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Role:          user.Role,
		CreatedAt:     user.CreatedAt,
		Counts: dto.ProfileCounts{
			Events:       events,
			Associations: associations,
		},
	}, nil
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	expiresAt := time.Now().Add(s.opts.TokenTTL)

	claims := middleware.Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *userResponse(user),
	}, nil
}

func userResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
	}
}
