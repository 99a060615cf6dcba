package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/repositories"
)

// defaultProfileName is used when the identity carries no display name.
const defaultProfileName = "Usuario"

// Subject is what a verified session token says about the caller.
type Subject struct {
	ID          int
	Email       string
	DisplayName string
}

type SessionService interface {
	// Bind resolves the profile of a session subject, creating a default
	// player profile when it is missing.
	Bind(ctx context.Context, subject Subject) (*models.User, error)
}

type sessionService struct {
	userRepo   repositories.UserRepository
	ownerEmail string
	logger     *slog.Logger
}

// NewSessionService wires the binder. A non-empty ownerEmail is promoted to
// owner whenever that account binds a session.
func NewSessionService(userRepo repositories.UserRepository, ownerEmail string, logger *slog.Logger) SessionService {
	return &sessionService{
		userRepo:   userRepo,
		ownerEmail: strings.TrimSpace(ownerEmail),
		logger:     logger,
	}
}

func (s *sessionService) Bind(ctx context.Context, subject Subject) (*models.User, error) {
	if subject.ID <= 0 {
		return nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.GetByID(ctx, subject.ID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		user, err = s.heal(ctx, subject)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to bind session %d: %w", subject.ID, err)
	}

	if s.ownerEmail != "" && strings.EqualFold(user.Email, s.ownerEmail) && user.Role != models.RoleOwner {
		if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleOwner); err != nil {
			return nil, fmt.Errorf("failed to promote owner %d: %w", user.ID, err)
		}
		user.Role = models.RoleOwner
		s.logger.Info("owner account promoted", slog.Int("user_id", user.ID))
	}
	return user, nil
}

// heal persists the profile that should have been created at registration.
func (s *sessionService) heal(ctx context.Context, subject Subject) (*models.User, error) {
	name := strings.TrimSpace(subject.DisplayName)
	if name == "" {
		name = defaultProfileName
	}
	profile := &models.User{
		ID:    subject.ID,
		Email: subject.Email,
		Name:  name,
		Role:  models.RolePlayer,
	}
	if err := s.userRepo.Create(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("failed to create missing profile: %w", err)
	}
	s.logger.Warn("missing profile recreated", slog.Int("user_id", subject.ID))

	// Профиль мог создать параллельный запрос — читаем итоговую запись.
	return s.userRepo.GetByID(ctx, subject.ID)
}
