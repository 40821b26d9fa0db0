package bootstrap

import (
	"time"

	"folklorika.bg/backend/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed fills an empty development database with an admin account, a sample
// approved association and an upcoming approved event, so the public pages
// have something to show right away. Every step is an insert-if-missing, so
// re-running is safe.
func Seed(db *gorm.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	admin, err := seedAdmin(db, logger)
	if err != nil {
		return err
	}

	association, err := seedAssociation(db, admin, logger)
	if err != nil {
		return err
	}

	return seedEvent(db, admin, association, logger)
}

func seedAdmin(db *gorm.DB, logger *zap.Logger) (*entity.User, error) {
	var existing entity.User
	err := db.Where("email = ?", "admin@folklorika.bg").First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	passwordHash := string(hash)

	admin := &entity.User{
		Email:         "admin@folklorika.bg",
		Name:          "Администратор",
		PasswordHash:  &passwordHash,
		Provider:      entity.ProviderCredentials,
		Role:          entity.RoleAdmin,
		EmailVerified: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}

	logger.Info("seeded admin user", zap.String("email", admin.Email))
	return admin, nil
}

func seedAssociation(db *gorm.DB, admin *entity.User, logger *zap.Logger) (*entity.Association, error) {
	var existing entity.Association
	err := db.Where("slug = ?", "zhultusha").First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	description := "Фолклорно сдружение за запазване и популяризиране на българския фолклор."
	region := "София-град"

	association := &entity.Association{
		Name:        "Жълтуша и Приятели",
		Slug:        "zhultusha",
		City:        "София",
		Region:      &region,
		Description: &description,
		Approved:    true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(association).Error; err != nil {
			return err
		}
		member := &entity.AssociationMember{
			AssociationID: association.ID,
			UserID:        admin.ID,
			Role:          entity.MemberRoleOwner,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("seeded association", zap.String("name", association.Name))
	return association, nil
}

// nextConcertDate places the sample concert on the upcoming Christmas Eve,
// so the seeded event is always in the future regardless of when the seed
// runs.
func nextConcertDate(now time.Time) time.Time {
	start := time.Date(now.Year(), 12, 24, 19, 0, 0, 0, time.Local)
	if !start.After(now) {
		start = start.AddDate(1, 0, 0)
	}
	return start
}

func seedEvent(db *gorm.DB, admin *entity.User, association *entity.Association, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.Event{}).
		Where("slug = ?", "koladen-koncert").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	description := "Традиционен коледен концерт с български народни песни и танци."
	region := "София-град"
	venue := "НДК - Зала 1"
	ticketPrice := 20.0
	start := nextConcertDate(time.Now())
	end := start.Add(3 * time.Hour)

	event := &entity.Event{
		Title:         "Коледен концерт",
		Slug:          "koladen-koncert",
		Type:          entity.EventTypeConcert,
		Description:   &description,
		Date:          start,
		EndDate:       &end,
		City:          "София",
		Region:        &region,
		Venue:         &venue,
		IsFree:        false,
		TicketPrice:   &ticketPrice,
		Approved:      true,
		Featured:      true,
		AssociationID: &association.ID,
		CreatorID:     admin.ID,
	}
	if err := db.Create(event).Error; err != nil {
		return err
	}

	logger.Info("seeded event", zap.String("title", event.Title))
	return nil
}
