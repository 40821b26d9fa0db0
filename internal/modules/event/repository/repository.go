package repository

import (
	"context"
	"time"

	"folklorika.bg/backend/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// upcomingLimit caps the public feed; matches the landing page layout.
const upcomingLimit = 20

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Event, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// FindUpcoming returns approved events from the given instant onwards,
	// soonest first, capped to the feed size.
	FindUpcoming(ctx context.Context, from time.Time) ([]*entity.Event, error)
	FindPending(ctx context.Context) ([]*entity.Event, error)
	FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entity.Event, error)

	SetApproved(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindBySlug(ctx context.Context, slug string) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.WithContext(ctx).
		Preload("Association").
		First(&event, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Event{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *eventRepository) FindUpcoming(ctx context.Context, from time.Time) ([]*entity.Event, error) {
	var events []*entity.Event
	if err := r.db.WithContext(ctx).
		Preload("Association").
		Where("approved = ? AND date >= ?", true, from).
		Order("date ASC").
		Limit(upcomingLimit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindPending(ctx context.Context) ([]*entity.Event, error) {
	var events []*entity.Event
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Association").
		Where("approved = ?", false).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entity.Event, error) {
	var events []*entity.Event
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("date DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) SetApproved(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Event{}).
		Where("id = ?", id).
		Update("approved", true).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Event{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
