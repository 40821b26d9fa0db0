package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"folklorika.bg/backend/internal/entity"
	assocRepo "folklorika.bg/backend/internal/modules/association/repository"
	"folklorika.bg/backend/internal/modules/event/dto"
	"folklorika.bg/backend/internal/modules/event/repository"
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

const rateLimitAction = "create_event"

// dateLayout is the day-first format used in the admin notification mail.
const dateLayout = "02.01.2006"

type EventService interface {
	ListUpcoming(ctx context.Context) ([]*entity.Event, error)
	GetBySlug(ctx context.Context, slugValue string) (*entity.Event, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]dto.Summary, error)
	Create(ctx context.Context, userID uuid.UUID, input dto.CreateEventInput) (*entity.Event, error)
}

type eventService struct {
	repo         repository.EventRepository
	associations assocRepo.AssociationRepository
	users        userRepo.UserRepository
	notifier     notifier.Notifier
	rdb          *redis.Client
	rateLimit    time.Duration
	logger       *zap.Logger
}

func NewEventService(
	repo repository.EventRepository,
	associations assocRepo.AssociationRepository,
	users userRepo.UserRepository,
	n notifier.Notifier,
	rdb *redis.Client,
	rateLimit time.Duration,
	logger *zap.Logger,
) EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &eventService{
		repo:         repo,
		associations: associations,
		users:        users,
		notifier:     n,
		rdb:          rdb,
		rateLimit:    rateLimit,
		logger:       logger,
	}
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]*entity.Event, error) {
	return s.repo.FindUpcoming(ctx, time.Now())
}

func (s *eventService) GetBySlug(ctx context.Context, slugValue string) (*entity.Event, error) {
	event, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	// Past events stay reachable by slug, unapproved ones never are.
	if !event.Approved {
		return nil, apperror.ErrNotFound
	}
	return event, nil
}

func (s *eventService) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.Summary, error) {
	events, err := s.repo.FindByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.Summary, len(events))
	for i, e := range events {
		summaries[i] = dto.Summary{
			ID:       e.ID,
			Title:    e.Title,
			Date:     e.Date,
			City:     e.City,
			Approved: e.Approved,
		}
	}
	return summaries, nil
}

func (s *eventService) Create(ctx context.Context, userID uuid.UUID, input dto.CreateEventInput) (*entity.Event, error) {
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

	eventType := input.Type
	if eventType == "" {
		eventType = entity.EventTypeOther
	}
	if !entity.ValidEventType(eventType) {
		return nil, apperror.New(http.StatusBadRequest,
			"Невалиден тип събитие", apperror.ErrInvalidInput)
	}

	var associationName string
	if input.AssociationID != nil {
		association, err := s.associations.FindByID(ctx, *input.AssociationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.New(http.StatusBadRequest,
					"Избраното сдружение не съществува", apperror.ErrInvalidInput)
			}
			return nil, err
		}
		associationName = association.Name
	}

	slugValue, err := s.resolveSlug(ctx, input.Slug, input.Title)
	if err != nil {
		return nil, err
	}

	event := &entity.Event{
		Title:         input.Title,
		Slug:          slugValue,
		Type:          eventType,
		Description:   input.Description,
		Date:          input.Date,
		EndDate:       input.EndDate,
		City:          input.City,
		Region:        input.Region,
		Venue:         input.Venue,
		Address:       input.Address,
		IsFree:        input.IsFree,
		TicketPrice:   input.TicketPrice,
		TicketURL:     input.TicketURL,
		ImageURL:      input.ImageURL,
		Approved:      false,
		AssociationID: input.AssociationID,
		CreatorID:     userID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	go s.notifyPending(event, user, associationName)

	return event, nil
}

func (s *eventService) notifyPending(event *entity.Event, user *entity.User, associationName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.notifier.EventPending(ctx, notifier.EventPendingData{
		EventTitle:      event.Title,
		EventDate:       event.Date.Format(dateLayout),
		City:            event.City,
		AssociationName: associationName,
		UserName:        user.Name,
		UserEmail:       user.Email,
	})
	if err != nil {
		s.logger.Warn("failed to notify admin about pending event",
			zap.String("event", event.Title), zap.Error(err))
	}
}

func (s *eventService) resolveSlug(ctx context.Context, provided, title string) (string, error) {
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
				"Събитие с това название вече съществува", apperror.ErrConflict)
		}
		return provided, nil
	}

	base := slug.Make(title)
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
		"Събитие с това название вече съществува", apperror.ErrConflict)
}
