package service

import (
	"context"
	"encoding/json"
	"errors"

	"folklorika.bg/backend/internal/entity"
	"folklorika.bg/backend/internal/modules/user/dto"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

type GoogleAuthService interface {
	LoginURL(state string) string
	Callback(ctx context.Context, code string) (*dto.AuthResponse, error)
}

type GoogleOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type googleAuthService struct {
	*authService
	config *oauth2.Config
}

func NewGoogleAuthService(base AuthService, opts GoogleOptions) GoogleAuthService {
	inner, _ := base.(*authService)
	return &googleAuthService{
		authService: inner,
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (s *googleAuthService) LoginURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *googleAuthService) Callback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.New("failed to exchange token: " + err.Error())
	}

	client := s.config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, errors.New("failed to get user info: " + err.Error())
	}
	defer resp.Body.Close()

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, errors.New("failed to decode user info: " + err.Error())
	}

	user, err := s.repo.FindByEmail(ctx, googleUser.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		// First Google sign-in registers the account. Google already
		// verified the address, so no verification mail is needed.
		user = &entity.User{
			Email:         googleUser.Email,
			Name:          googleUser.Name,
			Provider:      entity.ProviderGoogle,
			Role:          entity.RoleUser,
			EmailVerified: googleUser.VerifiedEmail,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, errors.New("failed to create user: " + err.Error())
		}
	}

	return s.buildAuthResponse(user)
}
