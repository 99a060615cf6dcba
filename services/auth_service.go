package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrInvalidEmail           = errors.New("invalid email address")
)

type AuthService interface {
	// Register creates the identity and its player profile together.
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.Identity, error)
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	tx            repositories.Transactor
	identityRepo  repositories.IdentityRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	logger        *slog.Logger
	cost          int
}

func NewAuthService(
	tx repositories.Transactor,
	identityRepo repositories.IdentityRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	logger *slog.Logger,
) AuthService {
	return &authService{
		tx:            tx,
		identityRepo:  identityRepo,
		userRepo:      userRepo,
		notifications: notifications,
		logger:        logger,
		cost:          bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(input.Email))
	if err != nil {
		return nil, ErrInvalidEmail
	}
	email := strings.ToLower(addr.Address)
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = defaultProfileName
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	identity := &models.Identity{Email: email, PasswordHash: string(hashedPassword), DisplayName: name}
	user := &models.User{Email: email, Name: name, Role: models.RolePlayer}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.identityRepo.Create(ctx, exec, identity); err != nil {
			return err
		}
		user.ID = identity.ID
		return s.userRepo.Create(ctx, exec, user)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrIdentityEmailConflict) {
			return nil, ErrAuthEmailTaken
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	s.logger.Info("user registered", slog.Int("user_id", user.ID))

	_, err = s.notifications.Notify(ctx, Notice{
		UserID:  &user.ID,
		Title:   "Registro Exitoso",
		Message: "Gracias por registrarte en La Masía F&C.",
		Type:    models.NotificationInfo,
	})
	if err != nil {
		s.logger.Warn("welcome notification failed", slog.Int("user_id", user.ID), slog.Any("error", err))
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Identity, error) {
	identity, err := s.identityRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrIdentityNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find identity by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	identity.PasswordHash = ""
	return identity, nil
}
