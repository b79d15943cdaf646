package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tshwanesporting/clubsite/models"
	"github.com/tshwanesporting/clubsite/repositories"
	"github.com/tshwanesporting/clubsite/sessions"
	"github.com/tshwanesporting/clubsite/utils"
)

type AuthService interface {
	// Login verifies credentials and establishes a session. The returned user
	// has the password hash stripped.
	Login(ctx context.Context, username, password string) (*models.User, *sessions.Session, error)
	// Logout destroys the session. Calling it when already anonymous is not
	// an error.
	Logout(ctx context.Context, sessionID string) error
	// Register creates a non-admin user and establishes a session for it.
	Register(ctx context.Context, input models.InsertUser) (*models.User, *sessions.Session, error)
	// CurrentUser resolves the identity behind a session id.
	// Returns ErrNotAuthenticated for unknown or expired sessions.
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
	// EnsureAdmin seeds a bootstrap admin when no admin user exists yet.
	EnsureAdmin(ctx context.Context, username, password, fullName string) error
}

type authService struct {
	userRepo     repositories.UserRepository
	sessionStore sessions.Store
	sessionTTL   time.Duration
	logger       *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, sessionStore sessions.Store, sessionTTL time.Duration, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:     userRepo,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, *sessions.Session, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.sessionStore.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	sanitized := user.Sanitized()
	return &sanitized, session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessionStore.Destroy(ctx, sessionID)
}

func (s *authService) Register(ctx context.Context, input models.InsertUser) (*models.User, *sessions.Session, error) {
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: hashed,
		FullName:     input.FullName,
		IsAdmin:      input.IsAdmin,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUsernameConflict) {
			return nil, nil, ErrUsernameTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.sessionStore.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	sanitized := user.Sanitized()
	return &sanitized, session, nil
}

func (s *authService) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, ErrNotAuthenticated
	}

	session, err := s.sessionStore.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Сессия пережила пользователя; считаем запрос анонимным.
			_ = s.sessionStore.Destroy(ctx, sessionID)
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password, fullName string) error {
	admins, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if admins > 0 {
		return nil
	}

	if username == "" || password == "" {
		s.logger.Warn("no admin user exists and ADMIN_USERNAME/ADMIN_PASSWORD are not set, skipping bootstrap")
		return nil
	}
	if fullName == "" {
		fullName = "Admin User"
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	admin := &models.User{
		Username:     username,
		PasswordHash: hashed,
		FullName:     fullName,
		IsAdmin:      true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrUsernameConflict) {
			// Кто-то успел создать пользователя между проверкой и вставкой.
			return nil
		}
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap admin user created", slog.String("username", username))
	return nil
}
