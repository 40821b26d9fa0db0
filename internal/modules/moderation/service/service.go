package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"folklorika.bg/backend/internal/entity"
	assocDto "folklorika.bg/backend/internal/modules/association/dto"
	assocRepo "folklorika.bg/backend/internal/modules/association/repository"
	eventRepo "folklorika.bg/backend/internal/modules/event/repository"
	"folklorika.bg/backend/internal/modules/moderation/dto"
	searchService "folklorika.bg/backend/internal/modules/search/service"
	userRepo "folklorika.bg/backend/internal/modules/user/repository"
	"folklorika.bg/backend/internal/notifier"
	"folklorika.bg/backend/pkg/apperror"
	"folklorika.bg/backend/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModerationService is the admin surface: pending queues, approve/reject and
// the user directory, plus the bulk New Year greeting.
type ModerationService interface {
	PendingAssociations(ctx context.Context) ([]assocDto.PendingItem, error)
	ApproveAssociation(ctx context.Context, id uuid.UUID) error
	RejectAssociation(ctx context.Context, id uuid.UUID) error

	PendingEvents(ctx context.Context) ([]*entity.Event, error)
	ApproveEvent(ctx context.Context, id uuid.UUID) error
	RejectEvent(ctx context.Context, id uuid.UUID) error

	Users(ctx context.Context) ([]*entity.User, error)
	SendGreetings(ctx context.Context) (*dto.GreetingReport, error)
}

type moderationService struct {
	associations assocRepo.AssociationRepository
	events       eventRepo.EventRepository
	users        userRepo.UserRepository
	search       searchService.SearchService
	images       storage.ImageStorage
	notifier     notifier.Notifier
	sendDelay    time.Duration
	logger       *zap.Logger
}

func NewModerationService(
	associations assocRepo.AssociationRepository,
	events eventRepo.EventRepository,
	users userRepo.UserRepository,
	search searchService.SearchService,
	images storage.ImageStorage,
	n notifier.Notifier,
	sendDelay time.Duration,
	logger *zap.Logger,
) ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &moderationService{
		associations: associations,
		events:       events,
		users:        users,
		search:       search,
		images:       images,
		notifier:     n,
		sendDelay:    sendDelay,
		logger:       logger,
	}
}

func (s *moderationService) PendingAssociations(ctx context.Context) ([]assocDto.PendingItem, error) {
	pending, err := s.associations.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return []assocDto.PendingItem{}, nil
	}

	ids := make([]uuid.UUID, len(pending))
	for i, a := range pending {
		ids[i] = a.ID
	}
	eventCounts, err := s.associations.EventCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]assocDto.PendingItem, len(pending))
	for i, a := range pending {
		items[i] = assocDto.PendingItem{
			Association: *a,
			EventCount:  eventCounts[a.ID],
		}
	}
	return items, nil
}

// ApproveAssociation is idempotent: approving an already-approved association
// succeeds without touching the row again.
func (s *moderationService) ApproveAssociation(ctx context.Context, id uuid.UUID) error {
	association, err := s.associations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if !association.Approved {
		if err := s.associations.SetApproved(ctx, id); err != nil {
			return err
		}
		association.Approved = true
	}

	if err := s.search.IndexAssociation(association); err != nil {
		s.logger.Warn("failed to index approved association",
			zap.String("id", id.String()), zap.Error(err))
	}
	return nil
}

func (s *moderationService) RejectAssociation(ctx context.Context, id uuid.UUID) error {
	association, err := s.associations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.associations.DeleteWithMembers(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	s.removeImage(ctx, association.ImageURL)
	if err := s.search.DeleteAssociation(id.String()); err != nil {
		s.logger.Warn("failed to remove rejected association from search index",
			zap.String("id", id.String()), zap.Error(err))
	}
	return nil
}

func (s *moderationService) PendingEvents(ctx context.Context) ([]*entity.Event, error) {
	return s.events.FindPending(ctx)
}

func (s *moderationService) ApproveEvent(ctx context.Context, id uuid.UUID) error {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if !event.Approved {
		if err := s.events.SetApproved(ctx, id); err != nil {
			return err
		}
		event.Approved = true
	}

	if err := s.search.IndexEvent(event); err != nil {
		s.logger.Warn("failed to index approved event",
			zap.String("id", id.String()), zap.Error(err))
	}
	return nil
}

func (s *moderationService) RejectEvent(ctx context.Context, id uuid.UUID) error {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	s.removeImage(ctx, event.ImageURL)
	if err := s.search.DeleteEvent(id.String()); err != nil {
		s.logger.Warn("failed to remove rejected event from search index",
			zap.String("id", id.String()), zap.Error(err))
	}
	return nil
}

// removeImage drops the hosted image of a rejected row, best-effort.
func (s *moderationService) removeImage(ctx context.Context, imageURL *string) {
	if s.images == nil || imageURL == nil || *imageURL == "" {
		return
	}
	if err := s.images.DeleteImage(ctx, *imageURL); err != nil {
		s.logger.Warn("failed to delete hosted image",
			zap.String("url", *imageURL), zap.Error(err))
	}
}

func (s *moderationService) Users(ctx context.Context) ([]*entity.User, error) {
	return s.users.FindAll(ctx)
}

// SendGreetings mails the New Year greeting to every verified user, pausing
// between sends so the SMTP relay is not hammered. Individual failures are
// collected, not fatal.
func (s *moderationService) SendGreetings(ctx context.Context) (*dto.GreetingReport, error) {
	recipients, err := s.users.FindVerified(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.GreetingReport{
		Total:  len(recipients),
		Errors: []string{},
	}

	for i, user := range recipients {
		if err := s.notifier.NewYearGreeting(ctx, user.Name, user.Email); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", user.Email, err))
			s.logger.Warn("failed to send greeting",
				zap.String("email", user.Email), zap.Error(err))
		} else {
			report.Sent++
		}

		if s.sendDelay > 0 && i < len(recipients)-1 {
			select {
			case <-time.After(s.sendDelay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}
	}

	s.logger.Info("greeting run finished",
		zap.Int("total", report.Total),
		zap.Int("sent", report.Sent),
		zap.Int("failed", report.Failed))
	return report, nil
}
