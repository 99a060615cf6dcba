package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/repositories"
	"github.com/Dosada05/lamasia-league/state"
)

// RoleChange is a role update request. Each variant carries exactly the
// fields it may change: RoleUpdate keeps the team, RoleTeamUpdate sets it
// (a nil TeamID clears it).
type RoleChange interface {
	NewRole() models.Role
	roleChange()
}

type RoleUpdate struct {
	Role models.Role `json:"role"`
}

type RoleTeamUpdate struct {
	Role   models.Role `json:"role"`
	TeamID *int        `json:"team_id"`
}

func (u RoleUpdate) NewRole() models.Role     { return u.Role }
func (u RoleTeamUpdate) NewRole() models.Role { return u.Role }
func (RoleUpdate) roleChange()                {}
func (RoleTeamUpdate) roleChange()            {}

type UserService interface {
	UpdateRole(ctx context.Context, actor *models.User, userID int, change RoleChange) (*models.User, error)
	ListUsers(ctx context.Context, actor *models.User) ([]models.User, error)
}

type userService struct {
	userRepo      repositories.UserRepository
	teamRepo      repositories.TeamRepository
	reader        state.Reader
	notifications NotificationService
	logger        *slog.Logger
}

func NewUserService(
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	reader state.Reader,
	notifications NotificationService,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:      userRepo,
		teamRepo:      teamRepo,
		reader:        reader,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *userService) UpdateRole(ctx context.Context, actor *models.User, userID int, change RoleChange) (*models.User, error) {
	if err := Authorize(actor, ActionUpdateRoles, Scope{}); err != nil {
		return nil, err
	}
	if change == nil || !change.NewRole().Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	switch c := change.(type) {
	case RoleUpdate:
		err = s.userRepo.UpdateRole(ctx, userID, c.Role)
		user.Role = c.Role
	case RoleTeamUpdate:
		if c.TeamID != nil {
			if !c.Role.TeamBound() {
				return nil, fmt.Errorf("%w: role %s cannot be assigned to a team", ErrValidationFailed, c.Role)
			}
			if _, terr := s.teamRepo.GetByID(ctx, *c.TeamID); terr != nil {
				if errors.Is(terr, repositories.ErrTeamNotFound) {
					return nil, ErrTeamNotFound
				}
				return nil, fmt.Errorf("failed to get team %d: %w", *c.TeamID, terr)
			}
		}
		err = s.userRepo.UpdateRoleAndTeam(ctx, userID, c.Role, c.TeamID)
		user.Role = c.Role
		user.TeamID = c.TeamID
	default:
		return nil, ErrInvalidRole
	}
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role of user %d: %w", userID, err)
	}

	s.logger.Info("user role updated",
		slog.Int("user_id", userID),
		slog.String("role", string(user.Role)),
		slog.Int("actor_id", actor.ID))

	_, err = s.notifications.Notify(ctx, Notice{
		UserID:  &user.ID,
		Title:   "Rol Actualizado",
		Message: fmt.Sprintf("Tu rol ha sido actualizado a %s.", strings.ToUpper(string(user.Role))),
		Type:    models.NotificationWarning,
	})
	if err != nil {
		s.logger.Warn("role notification failed", slog.Int("user_id", userID), slog.Any("error", err))
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := Authorize(actor, ActionListUsers, Scope{}); err != nil {
		return nil, err
	}
	users := s.reader.Snapshot().Users
	if users == nil {
		return []models.User{}, nil
	}
	return users, nil
}
