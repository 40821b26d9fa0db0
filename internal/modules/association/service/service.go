package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"folklorika.bg/backend/internal/entity"
	"folklorika.bg/backend/internal/modules/association/dto"
	"folklorika.bg/backend/internal/modules/association/repository"
	userRepo "folklorika.bg/backend/internal/modules/user/repository"
	"folklorika.bg/backend/internal/notifier"
	"folklorika.bg/backend/pkg/apperror"
	"folklorika.bg/backend/pkg/ratelimit"
	"folklorika.bg/backend/pkg/slug"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const rateLimitAction = "create_association"

type AssociationService interface {
	ListPublic(ctx context.Context) ([]dto.ListItem, error)
	GetBySlug(ctx context.Context, slugValue string) (*dto.Detail, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]dto.Summary, error)
	Create(ctx context.Context, userID uuid.UUID, input dto.CreateAssociationInput) (*entity.Association, error)
}

type associationService struct {
	repo      repository.AssociationRepository
	users     userRepo.UserRepository
	notifier  notifier.Notifier
	rdb       *redis.Client
	rateLimit time.Duration
	logger    *zap.Logger
}

func NewAssociationService(
	repo repository.AssociationRepository,
	users userRepo.UserRepository,
	n notifier.Notifier,
	rdb *redis.Client,
	rateLimit time.Duration,
	logger *zap.Logger,
) AssociationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &associationService{
		repo:      repo,
		users:     users,
		notifier:  n,
		rdb:       rdb,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

func (s *associationService) ListPublic(ctx context.Context) ([]dto.ListItem, error) {
	associations, err := s.repo.FindApproved(ctx)
	if err != nil {
		return nil, err
	}
	if len(associations) == 0 {
		return []dto.ListItem{}, nil
	}

	ids := make([]uuid.UUID, len(associations))
	for i, a := range associations {
		ids[i] = a.ID
	}

	eventCounts, err := s.repo.EventCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	memberCounts, err := s.repo.MemberCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ListItem, len(associations))
	for i, a := range associations {
		items[i] = dto.ListItem{
			Association: *a,
			Counts: dto.Counts{
				Events:  eventCounts[a.ID],
				Members: memberCounts[a.ID],
			},
		}
	}
	return items, nil
}

func (s *associationService) GetBySlug(ctx context.Context, slugValue string) (*dto.Detail, error) {
	association, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	// Unapproved associations are invisible on the public surface.
	if !association.Approved {
		return nil, apperror.ErrNotFound
	}

	events, err := s.repo.UpcomingEvents(ctx, association.ID, time.Now())
	if err != nil {
		return nil, err
	}

	return &dto.Detail{
		Association:    *association,
		UpcomingEvents: events,
	}, nil
}

func (s *associationService) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.Summary, error) {
	associations, err := s.repo.FindByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.Summary, len(associations))
	for i, a := range associations {
		summaries[i] = dto.Summary{
			ID:       a.ID,
			Name:     a.Name,
			City:     a.City,
			Approved: a.Approved,
		}
	}
	return summaries, nil
}

func (s *associationService) Create(ctx context.Context, userID uuid.UUID, input dto.CreateAssociationInput) (*entity.Association, error) {
	allowed, err := ratelimit.CheckAndSet(ctx, s.rdb, userID, rateLimitAction, s.rateLimit)
	if err != nil {
		s.logger.Warn("rate limit check failed, allowing request", zap.Error(err))
	} else if !allowed {
		return nil, apperror.New(http.StatusTooManyRequests,
			"Твърде много заявки. Моля изчакайте малко.", apperror.ErrRateLimitExceeded)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	slugValue, err := s.resolveSlug(ctx, input.Slug, input.Name)
	if err != nil {
		return nil, err
	}

	association := &entity.Association{
		Name:        input.Name,
		Slug:        slugValue,
		Description: input.Description,
		City:        input.City,
		Region:      input.Region,
		Address:     input.Address,
		Email:       input.Email,
		Phone:       input.Phone,
		Website:     input.Website,
		Facebook:    input.Facebook,
		Instagram:   input.Instagram,
		ImageURL:    input.ImageURL,
		Approved:    false,
	}

	if err := s.repo.CreateWithOwner(ctx, association, userID); err != nil {
		return nil, err
	}

	// Moderation mail goes out after the transaction committed and never
	// fails the submission.
	go s.notifyPending(association, user)

	return association, nil
}

func (s *associationService) notifyPending(association *entity.Association, user *entity.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	contactEmail := "N/A"
	if association.Email != nil && *association.Email != "" {
		contactEmail = *association.Email
	}

	err := s.notifier.AssociationPending(ctx, notifier.AssociationPendingData{
		AssociationName: association.Name,
		City:            association.City,
		ContactEmail:    contactEmail,
		UserName:        user.Name,
		UserEmail:       user.Email,
	})
	if err != nil {
		s.logger.Warn("failed to notify admin about pending association",
			zap.String("association", association.Name), zap.Error(err))
	}
}

func (s *associationService) resolveSlug(ctx context.Context, provided, name string) (string, error) {
	if provided != "" {
		if !slug.IsValid(provided) {
			return "", apperror.New(http.StatusBadRequest,
				"Невалиден адрес (slug)", apperror.ErrInvalidInput)
		}
		exists, err := s.repo.SlugExists(ctx, provided)
		if err != nil {
			return "", err
		}
		if exists {
			return "", apperror.New(http.StatusBadRequest,
				"Сдружение с това име вече съществува", apperror.ErrConflict)
		}
		return provided, nil
	}

	base := slug.Make(name)
	if base == "" {
		base = uuid.New().String()[:8]
	}

	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + uuid.New().String()[:4]
	}

	return "", apperror.New(http.StatusBadRequest,
		"Сдружение с това име вече съществува", apperror.ErrConflict)
}
