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

type TeamService interface {
	CreateTeam(ctx context.Context, actor *models.User, input CreateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, actor *models.User, teamID int) error
}

type CreateTeamInput struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
	Color    string          `json:"color"`
}

type teamService struct {
	teamRepo      repositories.TeamRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, notifications NotificationService, logger *slog.Logger) TeamService {
	return &teamService{
		teamRepo:      teamRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, actor *models.User, input CreateTeamInput) (*models.Team, error) {
	if err := Authorize(actor, ActionManageTeams, Scope{}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = models.TeamColors[0]
	} else if !validColor(color) {
		return nil, ErrInvalidTeamColor
	}

	team := &models.Team{Name: name, Category: input.Category, Color: color}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team %q: %w", name, err)
	}
	s.logger.Info("team created", slog.Int("team_id", team.ID), slog.String("category", string(team.Category)))

	_, err := s.notifications.Notify(ctx, Notice{
		Title:   "Nuevo Equipo",
		Message: fmt.Sprintf("Se ha inscrito el equipo %s en %s", team.Name, team.Category.Label()),
		Type:    models.NotificationInfo,
	})
	if err != nil {
		s.logger.Warn("team broadcast failed", slog.Int("team_id", team.ID), slog.Any("error", err))
	}
	return team, nil
}

// DeleteTeam removes only the team. Its players and matches stay orphaned.
func (s *teamService) DeleteTeam(ctx context.Context, actor *models.User, teamID int) error {
	if err := Authorize(actor, ActionManageTeams, Scope{}); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}
	s.logger.Info("team deleted", slog.Int("team_id", teamID))
	return nil
}

func validColor(color string) bool {
	for _, c := range models.TeamColors {
		if c == color {
			return true
		}
	}
	return false
}
