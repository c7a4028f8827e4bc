package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink_backend/internal/appErrors"
	"tradelink_backend/internal/auth"
	"tradelink_backend/internal/config"
	"tradelink_backend/internal/models"
	"tradelink_backend/internal/repositories"
	"tradelink_backend/internal/services/dto"
)

func init() {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

type fakeUserRepo struct {
	repositories.UserRepository
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

type fakeProfileStore struct {
	repositories.ProfileRepository
	created []*models.Profile
}

func (f *fakeProfileStore) Create(profile *models.Profile) error {
	f.created = append(f.created, profile)
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	profiles := &fakeProfileStore{}
	svc := NewAuthService(users, profiles)
	ctx := context.Background()

	resp, err := svc.Register(ctx, dto.RegisterRequest{
		Email:    "ann@example.com",
		Password: "str0ngpass",
		Role:     "worker",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "worker", resp.Role)

	require.Len(t, profiles.created, 1)
	assert.Equal(t, models.SubscriptionTierFree, profiles.created[0].SubscriptionStatus)

	login, err := svc.Login(ctx, dto.LoginRequest{Email: "ann@example.com", Password: "str0ngpass"})
	require.NoError(t, err)

	claims, err := auth.ParseToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
	assert.Equal(t, models.UserRoleWorker, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, &fakeProfileStore{})
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{
		Email: "ann@example.com", Password: "str0ngpass", Role: "worker",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), &fakeProfileStore{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, &fakeProfileStore{})
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Email: "ann@example.com", Password: "str0ngpass", Role: "worker"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterRequest{Email: "ann@example.com", Password: "str0ngpass", Role: "worker"})
	require.Error(t, err)

	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), &fakeProfileStore{})

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "ann@example.com", Password: "short", Role: "worker",
	})
	require.Error(t, err)

	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeValidationFailed, appErr.Code)
}
