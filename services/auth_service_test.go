package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tshwanesporting/clubsite/models"
	"github.com/tshwanesporting/clubsite/repositories"
	"github.com/tshwanesporting/clubsite/sessions"
)

func newTestAuthService(t *testing.T) (AuthService, repositories.UserRepository, sessions.Store) {
	t.Helper()
	userRepo := repositories.NewMemoryUserRepository()
	sessionStore := sessions.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(userRepo, sessionStore, time.Hour, logger), userRepo, sessionStore
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	svc, _, sessionStore := newTestAuthService(t)
	ctx := context.Background()

	user, session, err := svc.Register(ctx, models.InsertUser{
		Username: "a@x.com",
		Password: "Secret1",
		FullName: "Ada Example",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Empty(t, user.PasswordHash, "password hash must never leave the auth layer")
	require.False(t, user.IsAdmin)
	require.NotEmpty(t, session.ID)

	stored, err := sessionStore.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.UserID)

	loggedIn, loginSession, err := svc.Login(ctx, "a@x.com", "Secret1")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.Empty(t, loggedIn.PasswordHash)
	require.NotEqual(t, session.ID, loginSession.ID, "each login establishes a fresh session")
}

func TestAuthServiceLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, models.InsertUser{
		Username: "real@x.com",
		Password: "Secret1",
		FullName: "Real User",
	})
	require.NoError(t, err)

	_, _, ghostErr := svc.Login(ctx, "ghost@x.com", "anything")
	_, _, wrongErr := svc.Login(ctx, "real@x.com", "wrong-password")

	require.ErrorIs(t, ghostErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, ghostErr.Error(), wrongErr.Error())
}

func TestAuthServiceRegisterConflictLeavesOriginalIntact(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	first, _, err := svc.Register(ctx, models.InsertUser{
		Username: "dup@x.com",
		Password: "Secret1",
		FullName: "First",
	})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, models.InsertUser{
		Username: "dup@x.com",
		Password: "Other99",
		FullName: "Second",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	// Оригинальный пользователь и его пароль не меняются.
	again, _, err := svc.Login(ctx, "dup@x.com", "Secret1")
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, "First", again.FullName)
}

func TestAuthServiceLogoutIsIdempotent(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, session, err := svc.Register(ctx, models.InsertUser{
		Username: "out@x.com",
		Password: "Secret1",
		FullName: "Out",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.ID))
	require.NoError(t, svc.Logout(ctx, session.ID))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err = svc.CurrentUser(ctx, session.ID)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthServiceCurrentUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, session, err := svc.Register(ctx, models.InsertUser{
		Username: "cur@x.com",
		Password: "Secret1",
		FullName: "Current",
	})
	require.NoError(t, err)

	resolved, err := svc.CurrentUser(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved.ID)
	require.Empty(t, resolved.PasswordHash)

	_, err = svc.CurrentUser(ctx, "")
	require.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.CurrentUser(ctx, "0000000000000000000000000000000000000000000000000000000000000000")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthServiceEnsureAdmin(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)
	ctx := context.Background()

	// Без настроенных учётных данных бутстрап молча пропускается.
	require.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))
	count, err := userRepo.CountAdmins(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@x.com", "Secret1", "Club Administrator"))
	count, err = userRepo.CountAdmins(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	admin, _, err := svc.Login(ctx, "admin@x.com", "Secret1")
	require.NoError(t, err)
	require.True(t, admin.IsAdmin)

	// Повторный вызов не создаёт второго администратора.
	require.NoError(t, svc.EnsureAdmin(ctx, "admin2@x.com", "Other99", "Other"))
	count, err = userRepo.CountAdmins(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
