package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"folklorika.bg/backend/internal/entity"
	"folklorika.bg/backend/internal/modules/user/dto"
	"folklorika.bg/backend/internal/modules/user/repository"
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

// fakeNotifier records the last verification/reset URLs and can be told to
// fail specific sends.
type fakeNotifier struct {
	failVerification bool
	failReset        bool

	verifyURL string
	resetURL  string
}

func (f *fakeNotifier) AssociationPending(context.Context, notifier.AssociationPendingData) error {
	return nil
}
func (f *fakeNotifier) EventPending(context.Context, notifier.EventPendingData) error { return nil }
func (f *fakeNotifier) PasswordChanged(_ context.Context, _, _ string) error          { return nil }
func (f *fakeNotifier) NewYearGreeting(_ context.Context, _, _ string) error          { return nil }

func (f *fakeNotifier) VerificationEmail(_ context.Context, _, _, verifyURL string) error {
	if f.failVerification {
		return errors.New("smtp: connection refused")
	}
	f.verifyURL = verifyURL
	return nil
}

func (f *fakeNotifier) PasswordReset(_ context.Context, _, _, resetURL string) error {
	if f.failReset {
		return errors.New("smtp: connection refused")
	}
	f.resetURL = resetURL
	return nil
}

func tokenFromURL(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func newAuth(db *gorm.DB, fn *fakeNotifier) AuthService {
	return NewAuthService(repository.NewUserRepository(db), fn, Options{
		JWTSecret:   "test-secret",
		BaseURL:     "http://localhost:8080",
		FrontendURL: "http://localhost:3000",
	}, nil)
}

func register(t *testing.T, svc AuthService, email string) {
	t.Helper()
	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name: "Иван Петров", Email: email, Password: "parola123",
	})
	require.NoError(t, err)
}

func TestRegisterAndVerifyFlow(t *testing.T) {
	db := newTestDB(t)
	fn := &fakeNotifier{}
	svc := newAuth(db, fn)

	register(t, svc, "ivan@example.com")

	var user entity.User
	require.NoError(t, db.First(&user, "email = ?", "ivan@example.com").Error)
	assert.False(t, user.EmailVerified)
	require.NotNil(t, user.VerificationTokenHash)

	token := tokenFromURL(t, fn.verifyURL)
	// The raw token never touches the database.
	assert.NotEqual(t, token, *user.VerificationTokenHash)

	status, err := svc.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "success", status)

	// The token is single-use but re-verifying reports the state politely.
	require.NoError(t, db.First(&user, "email = ?", "ivan@example.com").Error)
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.VerificationTokenHash)

	_, err = svc.VerifyEmail(context.Background(), token)
	require.Error(t, err)
}

func TestRegisterRollsBackWhenMailFails(t *testing.T) {
	db := newTestDB(t)
	fn := &fakeNotifier{failVerification: true}
	svc := newAuth(db, fn)

	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name: "Иван Петров", Email: "ivan@example.com", Password: "parola123",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuth(db, &fakeNotifier{})

	register(t, svc, "ivan@example.com")
	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name: "Друг Иван", Email: "ivan@example.com", Password: "parola456",
	})
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuth(db, &fakeNotifier{})
	register(t, svc, "ivan@example.com")

	res, err := svc.Login(context.Background(), dto.LoginInput{
		Email: "ivan@example.com", Password: "parola123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ivan@example.com", res.User.Email)

	_, err = svc.Login(context.Background(), dto.LoginInput{
		Email: "ivan@example.com", Password: "greshna",
	})
	require.Error(t, err)

	_, err = svc.Login(context.Background(), dto.LoginInput{
		Email: "nyama@example.com", Password: "parola123",
	})
	require.Error(t, err)
}

func TestForgotAndResetPasswordFlow(t *testing.T) {
	db := newTestDB(t)
	fn := &fakeNotifier{}
	svc := newAuth(db, fn)
	register(t, svc, "ivan@example.com")

	require.NoError(t, svc.ForgotPassword(context.Background(), "ivan@example.com"))
	token := tokenFromURL(t, fn.resetURL)

	require.NoError(t, svc.ResetPassword(context.Background(), dto.ResetPasswordInput{
		Token: token, Password: "novaparola",
	}))

	_, err := svc.Login(context.Background(), dto.LoginInput{
		Email: "ivan@example.com", Password: "novaparola",
	})
	require.NoError(t, err)

	// The token was consumed.
	err = svc.ResetPassword(context.Background(), dto.ResetPasswordInput{
		Token: token, Password: "oshte-edna",
	})
	require.Error(t, err)
}

func TestForgotPasswordUnknownEmailStaysSilent(t *testing.T) {
	db := newTestDB(t)
	fn := &fakeNotifier{}
	svc := newAuth(db, fn)

	require.NoError(t, svc.ForgotPassword(context.Background(), "nyama@example.com"))
	assert.Empty(t, fn.resetURL)
}

func TestForgotPasswordClearsTokenWhenMailFails(t *testing.T) {
	db := newTestDB(t)
	fn := &fakeNotifier{failReset: true}
	svc := newAuth(db, fn)
	register(t, svc, "ivan@example.com")

	err := svc.ForgotPassword(context.Background(), "ivan@example.com")
	require.Error(t, err)

	var user entity.User
	require.NoError(t, db.First(&user, "email = ?", "ivan@example.com").Error)
	assert.Nil(t, user.ResetTokenHash)
	assert.Nil(t, user.ResetTokenExpiry)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	db := newTestDB(t)
	fn := &fakeNotifier{}
	svc := newAuth(db, fn)
	register(t, svc, "ivan@example.com")

	require.NoError(t, svc.ForgotPassword(context.Background(), "ivan@example.com"))
	token := tokenFromURL(t, fn.resetURL)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&entity.User{}).
		Where("email = ?", "ivan@example.com").
		Update("reset_token_expiry", expired).Error)

	err := svc.ResetPassword(context.Background(), dto.ResetPasswordInput{
		Token: token, Password: "novaparola",
	})
	require.Error(t, err)

	// The expired token is gone, not reusable.
	var user entity.User
	require.NoError(t, db.First(&user, "email = ?", "ivan@example.com").Error)
	assert.Nil(t, user.ResetTokenHash)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuth(db, &fakeNotifier{})
	register(t, svc, "ivan@example.com")

	var user entity.User
	require.NoError(t, db.First(&user, "email = ?", "ivan@example.com").Error)

	err := svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		CurrentPassword: "greshna", NewPassword: "novaparola",
	})
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		CurrentPassword: "parola123", NewPassword: "novaparola",
	}))

	_, err = svc.Login(context.Background(), dto.LoginInput{
		Email: "ivan@example.com", Password: "novaparola",
	})
	require.NoError(t, err)
}

func TestProfileCounts(t *testing.T) {
	db := newTestDB(t)
	svc := newAuth(db, &fakeNotifier{})
	register(t, svc, "ivan@example.com")

	var user entity.User
	require.NoError(t, db.First(&user, "email = ?", "ivan@example.com").Error)

	association := &entity.Association{Name: "Китка", Slug: "kitka", City: "София"}
	require.NoError(t, db.Create(association).Error)
	require.NoError(t, db.Create(&entity.AssociationMember{
		AssociationID: association.ID, UserID: user.ID, Role: entity.MemberRoleOwner,
	}).Error)
	require.NoError(t, db.Create(&entity.Event{
		Title: "Концерт", Slug: "koncert", City: "София",
		Date: time.Now().Add(24 * time.Hour), CreatorID: user.ID,
	}).Error)

	profile, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.Counts.Events)
	assert.Equal(t, int64(1), profile.Counts.Associations)
}
