package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/repositories"
)

type MatchService interface {
	CreateMatch(ctx context.Context, actor *models.User, input CreateMatchInput) (*models.Match, error)
	DeleteMatch(ctx context.Context, actor *models.User, matchID int) error
	// UpdateResult replaces the match stats as a whole.
	UpdateResult(ctx context.Context, actor *models.User, matchID int, stats models.MatchStats) (*models.Match, error)
}

type CreateMatchInput struct {
	RoundID    int             `json:"round_id"`
	Category   models.Category `json:"category"`
	Date       time.Time       `json:"date"`
	HomeTeamID int             `json:"home_team_id"`
	AwayTeamID int             `json:"away_team_id"`
}

type matchService struct {
	tx            repositories.Transactor
	matchRepo     repositories.MatchRepository
	roundRepo     repositories.RoundRepository
	teamRepo      repositories.TeamRepository
	playerRepo    repositories.PlayerRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	roundRepo repositories.RoundRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	notifications NotificationService,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:            tx,
		matchRepo:     matchRepo,
		roundRepo:     roundRepo,
		teamRepo:      teamRepo,
		playerRepo:    playerRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, actor *models.User, input CreateMatchInput) (*models.Match, error) {
	if err := Authorize(actor, ActionManageMatches, Scope{}); err != nil {
		return nil, err
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrSameTeams
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidationFailed)
	}

	if _, err := s.roundRepo.GetByID(ctx, input.RoundID); err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round %d: %w", input.RoundID, err)
	}
	for _, teamID := range []int{input.HomeTeamID, input.AwayTeamID} {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
		}
		if team.Category != input.Category {
			return nil, fmt.Errorf("%w: %s plays in %s", ErrCategoryMismatch, team.Name, team.Category)
		}
	}

	match := &models.Match{
		RoundID:    input.RoundID,
		Category:   input.Category,
		Date:       input.Date,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		Stats:      models.MatchStats{Scorers: []models.ScorerEntry{}},
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	s.logger.Info("match created", slog.Int("match_id", match.ID), slog.Int("round_id", match.RoundID))
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, actor *models.User, matchID int) error {
	if err := Authorize(actor, ActionManageMatches, Scope{}); err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}
	s.logger.Info("match deleted", slog.Int("match_id", matchID))
	return nil
}

// ValidateStats checks the shape of a score entry. Scores are not compared
// with the scorer counts: manual entry stays loose.
func ValidateStats(stats models.MatchStats) error {
	if stats.HomeScore < 0 || stats.AwayScore < 0 {
		return ErrInvalidScore
	}
	seen := make(map[int]bool, len(stats.Scorers))
	for _, entry := range stats.Scorers {
		if entry.PlayerID <= 0 || entry.Count <= 0 {
			return ErrInvalidScorer
		}
		if seen[entry.PlayerID] {
			return ErrDuplicateScorer
		}
		seen[entry.PlayerID] = true
	}
	return nil
}

func (s *matchService) UpdateResult(ctx context.Context, actor *models.User, matchID int, stats models.MatchStats) (*models.Match, error) {
	if err := Authorize(actor, ActionRecordResult, Scope{}); err != nil {
		return nil, err
	}
	if err := ValidateStats(stats); err != nil {
		return nil, err
	}
	stats.Summary = ""
	if stats.Scorers == nil {
		stats.Scorers = []models.ScorerEntry{}
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}

	// Пересчитываем голы и у тех, кого убрали из списка бомбардиров.
	affected := scorerIDs(match.Stats.Scorers, stats.Scorers)

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateStats(ctx, exec, matchID, stats); err != nil {
			return err
		}
		return s.playerRepo.SyncGoals(ctx, exec, affected)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update result of match %d: %w", matchID, err)
	}
	match.Stats = stats

	s.logger.Info("match result updated",
		slog.Int("match_id", matchID),
		slog.Int("home_score", stats.HomeScore),
		slog.Int("away_score", stats.AwayScore),
		slog.Bool("is_played", stats.IsPlayed))

	if stats.IsPlayed {
		s.announceResult(ctx, match)
	}
	return match, nil
}

// announceResult broadcasts the final score when both teams still exist.
func (s *matchService) announceResult(ctx context.Context, match *models.Match) {
	home, err := s.teamRepo.GetByID(ctx, match.HomeTeamID)
	if err != nil {
		s.logger.Debug("result not announced, home team missing", slog.Int("match_id", match.ID), slog.Any("error", err))
		return
	}
	away, err := s.teamRepo.GetByID(ctx, match.AwayTeamID)
	if err != nil {
		s.logger.Debug("result not announced, away team missing", slog.Int("match_id", match.ID), slog.Any("error", err))
		return
	}

	_, err = s.notifications.Notify(ctx, Notice{
		Title:   "Resultado Final",
		Message: fmt.Sprintf("%s (%d) - (%d) %s", home.Name, match.Stats.HomeScore, match.Stats.AwayScore, away.Name),
		Type:    models.NotificationSuccess,
	})
	if err != nil {
		s.logger.Warn("result broadcast failed", slog.Int("match_id", match.ID), slog.Any("error", err))
	}
}

func scorerIDs(lists ...[]models.ScorerEntry) []int {
	seen := make(map[int]bool)
	ids := make([]int, 0)
	for _, list := range lists {
		for _, entry := range list {
			if !seen[entry.PlayerID] {
				seen[entry.PlayerID] = true
				ids = append(ids, entry.PlayerID)
			}
		}
	}
	return ids
}
