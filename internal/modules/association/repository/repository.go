package repository

import (
	"context"
	"time"

	"folklorika.bg/backend/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssociationRepository interface {
	// CreateWithOwner persists the association and its OWNER membership in
	// one transaction: both rows exist or neither does.
	CreateWithOwner(ctx context.Context, association *entity.Association, ownerID uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Association, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Association, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	FindApproved(ctx context.Context) ([]*entity.Association, error)
	FindPending(ctx context.Context) ([]*entity.Association, error)
	FindByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Association, error)
	UpcomingEvents(ctx context.Context, associationID uuid.UUID, from time.Time) ([]entity.Event, error)

	EventCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	MemberCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)

	SetApproved(ctx context.Context, id uuid.UUID) error
	// DeleteWithMembers removes the association, its memberships and the
	// back-references from its events, atomically.
	DeleteWithMembers(ctx context.Context, id uuid.UUID) error
}

type associationRepository struct {
	db *gorm.DB
}

func NewAssociationRepository(db *gorm.DB) AssociationRepository {
	return &associationRepository{db: db}
}

func (r *associationRepository) CreateWithOwner(ctx context.Context, association *entity.Association, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(association).Error; err != nil {
			return err
		}

		member := &entity.AssociationMember{
			AssociationID: association.ID,
			UserID:        ownerID,
			Role:          entity.MemberRoleOwner,
		}
		return tx.Create(member).Error
	})
}

func (r *associationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Association, error) {
	var association entity.Association
	if err := r.db.WithContext(ctx).First(&association, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &association, nil
}

func (r *associationRepository) FindBySlug(ctx context.Context, slug string) (*entity.Association, error) {
	var association entity.Association
	if err := r.db.WithContext(ctx).
		Preload("Members.User").
		First(&association, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &association, nil
}

func (r *associationRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Association{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *associationRepository) FindApproved(ctx context.Context) ([]*entity.Association, error) {
	var associations []*entity.Association
	if err := r.db.WithContext(ctx).
		Where("approved = ?", true).
		Order("name ASC").
		Find(&associations).Error; err != nil {
		return nil, err
	}
	return associations, nil
}

func (r *associationRepository) FindPending(ctx context.Context) ([]*entity.Association, error) {
	var associations []*entity.Association
	if err := r.db.WithContext(ctx).
		Preload("Members.User").
		Where("approved = ?", false).
		Order("created_at DESC").
		Find(&associations).Error; err != nil {
		return nil, err
	}
	return associations, nil
}

func (r *associationRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Association, error) {
	var associations []*entity.Association
	if err := r.db.WithContext(ctx).
		Joins("JOIN association_members ON association_members.association_id = associations.id").
		Where("association_members.user_id = ?", userID).
		Order("associations.name ASC").
		Find(&associations).Error; err != nil {
		return nil, err
	}
	return associations, nil
}

func (r *associationRepository) UpcomingEvents(ctx context.Context, associationID uuid.UUID, from time.Time) ([]entity.Event, error) {
	var events []entity.Event
	if err := r.db.WithContext(ctx).
		Where("association_id = ? AND approved = ? AND date >= ?", associationID, true, from).
		Order("date ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

type countRow struct {
	AssociationID uuid.UUID
	Count         int64
}

func (r *associationRepository) EventCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []countRow
	if err := r.db.WithContext(ctx).Model(&entity.Event{}).
		Select("association_id, COUNT(*) AS count").
		Where("association_id IN ?", ids).
		Group("association_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.AssociationID] = row.Count
	}
	return counts, nil
}

func (r *associationRepository) MemberCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []countRow
	if err := r.db.WithContext(ctx).Model(&entity.AssociationMember{}).
		Select("association_id, COUNT(*) AS count").
		Where("association_id IN ?", ids).
		Group("association_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.AssociationID] = row.Count
	}
	return counts, nil
}

func (r *associationRepository) SetApproved(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Association{}).
		Where("id = ?", id).
		Update("approved", true).Error
}

func (r *associationRepository) DeleteWithMembers(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Members first, then the association row, to satisfy the FK.
		if err := tx.Delete(&entity.AssociationMember{}, "association_id = ?", id).Error; err != nil {
			return err
		}

		// Events of a rejected association survive as independent events.
		if err := tx.Model(&entity.Event{}).
			Where("association_id = ?", id).
			Update("association_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&entity.Association{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
