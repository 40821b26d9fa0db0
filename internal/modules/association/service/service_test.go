package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"folklorika.bg/backend/internal/entity"
	"folklorika.bg/backend/internal/modules/association/dto"
	"folklorika.bg/backend/internal/modules/association/repository"
	userRepo "folklorika.bg/backend/internal/modules/user/repository"
	"folklorika.bg/backend/internal/notifier"
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

type fakeNotifier struct {
	pending chan notifier.AssociationPendingData
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{pending: make(chan notifier.AssociationPendingData, 8)}
}

func (f *fakeNotifier) AssociationPending(_ context.Context, data notifier.AssociationPendingData) error {
	f.pending <- data
	return nil
}

func (f *fakeNotifier) EventPending(context.Context, notifier.EventPendingData) error { return nil }
func (f *fakeNotifier) VerificationEmail(_ context.Context, _, _, _ string) error     { return nil }
func (f *fakeNotifier) PasswordReset(_ context.Context, _, _, _ string) error         { return nil }
func (f *fakeNotifier) PasswordChanged(_ context.Context, _, _ string) error          { return nil }
func (f *fakeNotifier) NewYearGreeting(_ context.Context, _, _ string) error          { return nil }

func seedUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	user := &entity.User{
		Email:         email,
		Name:          "Иван Петров",
		Provider:      entity.ProviderCredentials,
		Role:          entity.RoleUser,
		EmailVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newService(db *gorm.DB, n notifier.Notifier) AssociationService {
	return NewAssociationService(
		repository.NewAssociationRepository(db),
		userRepo.NewUserRepository(db),
		n, nil, 0, nil)
}

func TestCreateAssociationStartsUnapprovedWithOwner(t *testing.T) {
	db := newTestDB(t)
	fn := newFakeNotifier()
	svc := newService(db, fn)
	user := seedUser(t, db, "ivan@example.com")

	email := "club@example.com"
	created, err := svc.Create(context.Background(), user.ID, dto.CreateAssociationInput{
		Name:  "Тракийска Китка",
		City:  "Пловдив",
		Email: &email,
	})
	require.NoError(t, err)

	assert.False(t, created.Approved)
	assert.Regexp(t, `^[a-z0-9]+(-[a-z0-9]+)*$`, created.Slug)

	var members []entity.AssociationMember
	require.NoError(t, db.Where("association_id = ?", created.ID).Find(&members).Error)
	require.Len(t, members, 1)
	assert.Equal(t, user.ID, members[0].UserID)
	assert.Equal(t, entity.MemberRoleOwner, members[0].Role)

	select {
	case data := <-fn.pending:
		assert.Equal(t, "Тракийска Китка", data.AssociationName)
		assert.Equal(t, "club@example.com", data.ContactEmail)
		assert.Equal(t, user.Email, data.UserEmail)
	case <-time.After(2 * time.Second):
		t.Fatal("no pending-association notification sent")
	}
}

func TestCreateAssociationSlugConflictLeavesNoRow(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, newFakeNotifier())
	user := seedUser(t, db, "ivan@example.com")

	_, err := svc.Create(context.Background(), user.ID, dto.CreateAssociationInput{
		Name: "Китка", Slug: "kitka", City: "София",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), user.ID, dto.CreateAssociationInput{
		Name: "Другa Китка", Slug: "kitka", City: "Варна",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&entity.Association{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateAssociationDerivedSlugAvoidsCollision(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, newFakeNotifier())
	user := seedUser(t, db, "ivan@example.com")

	first, err := svc.Create(context.Background(), user.ID, dto.CreateAssociationInput{
		Name: "Хоро", City: "София",
	})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), user.ID, dto.CreateAssociationInput{
		Name: "Хоро", City: "Бургас",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, first.Slug+"-"))
}

func TestListPublicExcludesUnapproved(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, newFakeNotifier())
	user := seedUser(t, db, "ivan@example.com")

	_, err := svc.Create(context.Background(), user.ID, dto.CreateAssociationInput{
		Name: "Чакащо Сдружение", City: "Русе",
	})
	require.NoError(t, err)

	approved := &entity.Association{
		Name: "Одобрено Сдружение", Slug: "odobreno", City: "Варна", Approved: true,
	}
	require.NoError(t, db.Create(approved).Error)

	items, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "odobreno", items[0].Slug)
}

func TestGetBySlugHidesUnapproved(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, newFakeNotifier())

	pending := &entity.Association{
		Name: "Чакащо", Slug: "chakashto", City: "Русе", Approved: false,
	}
	require.NoError(t, db.Create(pending).Error)

	_, err := svc.GetBySlug(context.Background(), "chakashto")
	require.Error(t, err)

	_, err = svc.GetBySlug(context.Background(), "lipsva")
	require.Error(t, err)
}

func TestGetBySlugReturnsUpcomingEventsOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, newFakeNotifier())
	user := seedUser(t, db, "ivan@example.com")

	association := &entity.Association{
		Name: "Жълтуша", Slug: "zhultusha", City: "София", Approved: true,
	}
	require.NoError(t, db.Create(association).Error)

	past := &entity.Event{
		Title: "Минал концерт", Slug: "minal", City: "София",
		Date: time.Now().Add(-48 * time.Hour), Approved: true,
		AssociationID: &association.ID, CreatorID: user.ID,
	}
	future := &entity.Event{
		Title: "Предстоящ концерт", Slug: "predstoyasht", City: "София",
		Date: time.Now().Add(48 * time.Hour), Approved: true,
		AssociationID: &association.ID, CreatorID: user.ID,
	}
	unapproved := &entity.Event{
		Title: "Неодобрен", Slug: "neodobren", City: "София",
		Date: time.Now().Add(24 * time.Hour), Approved: false,
		AssociationID: &association.ID, CreatorID: user.ID,
	}
	require.NoError(t, db.Create(past).Error)
	require.NoError(t, db.Create(future).Error)
	require.NoError(t, db.Create(unapproved).Error)

	detail, err := svc.GetBySlug(context.Background(), "zhultusha")
	require.NoError(t, err)
	require.Len(t, detail.UpcomingEvents, 1)
	assert.Equal(t, "predstoyasht", detail.UpcomingEvents[0].Slug)
}

func TestListMineIncludesPending(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, newFakeNotifier())
	owner := seedUser(t, db, "ivan@example.com")
	other := seedUser(t, db, "maria@example.com")

	_, err := svc.Create(context.Background(), owner.ID, dto.CreateAssociationInput{
		Name: "Моето Сдружение", City: "София",
	})
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].Approved)

	theirs, err := svc.ListMine(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
