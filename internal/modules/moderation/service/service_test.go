package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"folklorika.bg/backend/internal/entity"
	assocRepo "folklorika.bg/backend/internal/modules/association/repository"
	eventRepo "folklorika.bg/backend/internal/modules/event/repository"
	searchService "folklorika.bg/backend/internal/modules/search/service"
	userRepo "folklorika.bg/backend/internal/modules/user/repository"
	"folklorika.bg/backend/internal/notifier"
	"folklorika.bg/backend/pkg/apperror"
	"folklorika.bg/backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Association{},
		&entity.AssociationMember{},
		&entity.Event{},
	))
	return db
}

// fakeNotifier fails greeting sends for the addresses in failFor.
type fakeNotifier struct {
	failFor map[string]bool
	sent    []string
}

func (f *fakeNotifier) AssociationPending(context.Context, notifier.AssociationPendingData) error {
	return nil
}
func (f *fakeNotifier) EventPending(context.Context, notifier.EventPendingData) error { return nil }
func (f *fakeNotifier) VerificationEmail(_ context.Context, _, _, _ string) error     { return nil }
func (f *fakeNotifier) PasswordReset(_ context.Context, _, _, _ string) error         { return nil }
func (f *fakeNotifier) PasswordChanged(_ context.Context, _, _ string) error          { return nil }

func (f *fakeNotifier) NewYearGreeting(_ context.Context, _, email string) error {
	if f.failFor[email] {
		return errors.New("smtp: mailbox unavailable")
	}
	f.sent = append(f.sent, email)
	return nil
}

// fakeImageStorage records deleted URLs so tests can assert cleanup.
type fakeImageStorage struct {
	deleted []string
}

func (f *fakeImageStorage) UploadImage(_ context.Context, _ io.Reader, _, _ string) (string, error) {
	return "", nil
}

func (f *fakeImageStorage) DeleteImage(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

func newService(db *gorm.DB, n notifier.Notifier) ModerationService {
	return newServiceWithImages(db, n, nil)
}

func newServiceWithImages(db *gorm.DB, n notifier.Notifier, images storage.ImageStorage) ModerationService {
	return NewModerationService(
		assocRepo.NewAssociationRepository(db),
		eventRepo.NewEventRepository(db),
		userRepo.NewUserRepository(db),
		searchService.NewSearchService(nil, nil),
		images,
		n, 0, nil)
}

func seedUser(t *testing.T, db *gorm.DB, email string, verified bool) *entity.User {
	t.Helper()
	user := &entity.User{
		Email:         email,
		Name:          "Потребител",
		Provider:      entity.ProviderCredentials,
		Role:          entity.RoleUser,
		EmailVerified: verified,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAssociation(t *testing.T, db *gorm.DB, slug string, owner *entity.User) *entity.Association {
	t.Helper()
	association := &entity.Association{
		Name: "Сдружение " + slug, Slug: slug, City: "София",
	}
	require.NoError(t, db.Create(association).Error)
	require.NoError(t, db.Create(&entity.AssociationMember{
		AssociationID: association.ID,
		UserID:        owner.ID,
		Role:          entity.MemberRoleOwner,
	}).Error)
	return association
}

func TestApproveAssociationIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, &fakeNotifier{})
	owner := seedUser(t, db, "ivan@example.com", true)
	association := seedAssociation(t, db, "kitka", owner)

	require.NoError(t, svc.ApproveAssociation(context.Background(), association.ID))
	require.NoError(t, svc.ApproveAssociation(context.Background(), association.ID))

	var got entity.Association
	require.NoError(t, db.First(&got, "id = ?", association.ID).Error)
	assert.True(t, got.Approved)
}

func TestApproveAssociationMissingReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, &fakeNotifier{})
	owner := seedUser(t, db, "ivan@example.com", true)

	err := svc.ApproveAssociation(context.Background(), owner.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRejectAssociationDeletesMembersAndPreservesEvents(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, &fakeNotifier{})
	owner := seedUser(t, db, "ivan@example.com", true)
	association := seedAssociation(t, db, "kitka", owner)

	event := &entity.Event{
		Title: "Концерт", Slug: "koncert", City: "София",
		Date: time.Now().Add(24 * time.Hour), Approved: true,
		AssociationID: &association.ID, CreatorID: owner.ID,
	}
	require.NoError(t, db.Create(event).Error)

	require.NoError(t, svc.RejectAssociation(context.Background(), association.ID))

	var assocCount, memberCount int64
	require.NoError(t, db.Model(&entity.Association{}).Count(&assocCount).Error)
	require.NoError(t, db.Model(&entity.AssociationMember{}).Count(&memberCount).Error)
	assert.Zero(t, assocCount)
	assert.Zero(t, memberCount)

	var got entity.Event
	require.NoError(t, db.First(&got, "id = ?", event.ID).Error)
	assert.Nil(t, got.AssociationID)
}

func TestRejectAssociationMissingReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, &fakeNotifier{})
	owner := seedUser(t, db, "ivan@example.com", true)

	err := svc.RejectAssociation(context.Background(), owner.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPendingAssociationsListsUnapprovedOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, &fakeNotifier{})
	owner := seedUser(t, db, "ivan@example.com", true)

	pending := seedAssociation(t, db, "chakashto", owner)
	approved := seedAssociation(t, db, "odobreno", owner)
	require.NoError(t, db.Model(approved).Update("approved", true).Error)

	event := &entity.Event{
		Title: "Концерт", Slug: "koncert", City: "София",
		Date: time.Now().Add(24 * time.Hour),
		AssociationID: &pending.ID, CreatorID: owner.ID,
	}
	require.NoError(t, db.Create(event).Error)

	items, err := svc.PendingAssociations(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "chakashto", items[0].Slug)
	assert.Equal(t, int64(1), items[0].EventCount)
}

func TestApproveAndRejectEvent(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, &fakeNotifier{})
	owner := seedUser(t, db, "ivan@example.com", true)

	event := &entity.Event{
		Title: "Концерт", Slug: "koncert", City: "София",
		Date: time.Now().Add(24 * time.Hour), CreatorID: owner.ID,
	}
	require.NoError(t, db.Create(event).Error)

	require.NoError(t, svc.ApproveEvent(context.Background(), event.ID))
	require.NoError(t, svc.ApproveEvent(context.Background(), event.ID))

	var got entity.Event
	require.NoError(t, db.First(&got, "id = ?", event.ID).Error)
	assert.True(t, got.Approved)

	require.NoError(t, svc.RejectEvent(context.Background(), event.ID))
	err := svc.RejectEvent(context.Background(), event.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRejectRemovesHostedImages(t *testing.T) {
	db := newTestDB(t)
	images := &fakeImageStorage{}
	svc := newServiceWithImages(db, &fakeNotifier{}, images)
	owner := seedUser(t, db, "ivan@example.com", true)

	assocURL := "https://res.cloudinary.com/demo/image/upload/v1/associations/kitka.webp"
	association := seedAssociation(t, db, "kitka", owner)
	require.NoError(t, db.Model(association).Update("image_url", assocURL).Error)

	eventURL := "https://res.cloudinary.com/demo/image/upload/v1/events/koncert.webp"
	event := &entity.Event{
		Title: "Концерт", Slug: "koncert", City: "София",
		Date: time.Now().Add(24 * time.Hour), CreatorID: owner.ID,
		ImageURL: &eventURL,
	}
	require.NoError(t, db.Create(event).Error)

	require.NoError(t, svc.RejectAssociation(context.Background(), association.ID))
	require.NoError(t, svc.RejectEvent(context.Background(), event.ID))

	assert.ElementsMatch(t, []string{assocURL, eventURL}, images.deleted)
}

func TestRejectWithoutStorageOrImageIsSafe(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, &fakeNotifier{})
	owner := seedUser(t, db, "ivan@example.com", true)
	association := seedAssociation(t, db, "kitka", owner)

	require.NoError(t, svc.RejectAssociation(context.Background(), association.ID))
}

func TestSendGreetingsToleratesPartialFailure(t *testing.T) {
	db := newTestDB(t)
	fn := &fakeNotifier{failFor: map[string]bool{"broken@example.com": true}}
	svc := newService(db, fn)

	seedUser(t, db, "ivan@example.com", true)
	seedUser(t, db, "broken@example.com", true)
	seedUser(t, db, "maria@example.com", true)
	seedUser(t, db, "unverified@example.com", false)

	report, err := svc.SendGreetings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "broken@example.com")
	assert.NotContains(t, fn.sent, "unverified@example.com")
}
