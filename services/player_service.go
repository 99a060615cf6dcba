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

type PlayerService interface {
	AddPlayer(ctx context.Context, actor *models.User, input AddPlayerInput) (*models.Player, error)
	RemovePlayer(ctx context.Context, actor *models.User, playerID int) error
}

type AddPlayerInput struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
	TeamID int    `json:"team_id"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	logger     *slog.Logger
}

func NewPlayerService(playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository, logger *slog.Logger) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		logger:     logger,
	}
}

func (s *playerService) AddPlayer(ctx context.Context, actor *models.User, input AddPlayerInput) (*models.Player, error) {
	teamID := input.TeamID
	if err := Authorize(actor, ActionManagePlayers, Scope{TeamID: &teamID}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}
	if input.Number < 0 {
		return nil, ErrInvalidPlayerNum
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	player := &models.Player{Name: name, Number: input.Number, TeamID: teamID}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to add player %q: %w", name, err)
	}
	s.logger.Info("player added", slog.Int("player_id", player.ID), slog.Int("team_id", teamID))
	return player, nil
}

func (s *playerService) RemovePlayer(ctx context.Context, actor *models.User, playerID int) error {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	if err := Authorize(actor, ActionManagePlayers, Scope{TeamID: &player.TeamID}); err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to remove player %d: %w", playerID, err)
	}
	s.logger.Info("player removed", slog.Int("player_id", playerID), slog.Int("team_id", player.TeamID))
	return nil
}
