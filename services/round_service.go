package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/lamasia-league/fixtures"
	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/repositories"
)

const defaultFixtureInterval = 7 * 24 * time.Hour

type RoundService interface {
	CreateRound(ctx context.Context, actor *models.User, input CreateRoundInput) (*models.Round, error)
	DeleteRound(ctx context.Context, actor *models.User, roundID int) error
	GenerateFixture(ctx context.Context, actor *models.User, input GenerateFixtureInput) (*FixtureResult, error)
}

type CreateRoundInput struct {
	Name string     `json:"name"`
	Date *time.Time `json:"date,omitempty"`
}

type GenerateFixtureInput struct {
	Category models.Category `json:"category"`
	// Legs is 1 (single round robin) or 2 (home and away).
	Legs      int       `json:"legs"`
	StartDate time.Time `json:"start_date"`
	// IntervalDays between match days, 7 when zero.
	IntervalDays int    `json:"interval_days"`
	NamePrefix   string `json:"name_prefix"`
}

type FixtureResult struct {
	Rounds  []models.Round `json:"rounds"`
	Matches []models.Match `json:"matches"`
}

type roundService struct {
	tx            repositories.Transactor
	roundRepo     repositories.RoundRepository
	matchRepo     repositories.MatchRepository
	teamRepo      repositories.TeamRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewRoundService(
	tx repositories.Transactor,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	notifications NotificationService,
	logger *slog.Logger,
) RoundService {
	return &roundService{
		tx:            tx,
		roundRepo:     roundRepo,
		matchRepo:     matchRepo,
		teamRepo:      teamRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *roundService) CreateRound(ctx context.Context, actor *models.User, input CreateRoundInput) (*models.Round, error) {
	if err := Authorize(actor, ActionManageRounds, Scope{}); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrRoundNameRequired
	}

	round := &models.Round{Name: name, Date: input.Date}
	if err := s.roundRepo.Create(ctx, nil, round); err != nil {
		return nil, fmt.Errorf("failed to create round %q: %w", name, err)
	}
	s.logger.Info("round created", slog.Int("round_id", round.ID))
	return round, nil
}

// DeleteRound removes the round and every match in it atomically.
func (s *roundService) DeleteRound(ctx context.Context, actor *models.User, roundID int) error {
	if err := Authorize(actor, ActionManageRounds, Scope{}); err != nil {
		return err
	}

	var removed int64
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		n, err := s.matchRepo.DeleteByRound(ctx, exec, roundID)
		if err != nil {
			return fmt.Errorf("failed to delete matches of round %d: %w", roundID, err)
		}
		removed = n
		return s.roundRepo.Delete(ctx, exec, roundID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return ErrRoundNotFound
		}
		return fmt.Errorf("failed to delete round %d: %w", roundID, err)
	}

	s.logger.Info("round deleted", slog.Int("round_id", roundID), slog.Int64("matches_deleted", removed))
	return nil
}

// GenerateFixture creates one round per match day and its matches for every
// team of the category, all in one transaction.
func (s *roundService) GenerateFixture(ctx context.Context, actor *models.User, input GenerateFixtureInput) (*FixtureResult, error) {
	if err := Authorize(actor, ActionManageRounds, Scope{}); err != nil {
		return nil, err
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if input.Legs == 0 {
		input.Legs = 1
	}
	if input.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date is required", ErrValidationFailed)
	}
	interval := defaultFixtureInterval
	if input.IntervalDays < 0 {
		return nil, fmt.Errorf("%w: interval_days must be non-negative", ErrValidationFailed)
	}
	if input.IntervalDays > 0 {
		interval = time.Duration(input.IntervalDays) * 24 * time.Hour
	}
	prefix := strings.TrimSpace(input.NamePrefix)
	if prefix == "" {
		prefix = "Fecha"
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	teamIDs := make([]int, 0, len(teams))
	for _, t := range teams {
		if t.Category == input.Category {
			teamIDs = append(teamIDs, t.ID)
		}
	}

	days, err := fixtures.RoundRobin(teamIDs, input.Legs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	result := &FixtureResult{
		Rounds:  make([]models.Round, 0, len(days)),
		Matches: make([]models.Match, 0),
	}
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, day := range days {
			date := input.StartDate.Add(time.Duration(day.Number-1) * interval)
			round := &models.Round{
				Name: fmt.Sprintf("%s %d - %s", prefix, day.Number, input.Category.Label()),
				Date: &date,
			}
			if err := s.roundRepo.Create(ctx, exec, round); err != nil {
				return fmt.Errorf("failed to create round %q: %w", round.Name, err)
			}
			result.Rounds = append(result.Rounds, *round)

			for _, p := range day.Pairings {
				match := &models.Match{
					RoundID:    round.ID,
					Category:   input.Category,
					Date:       date,
					HomeTeamID: p.HomeTeamID,
					AwayTeamID: p.AwayTeamID,
					Stats:      models.MatchStats{Scorers: []models.ScorerEntry{}},
				}
				if err := s.matchRepo.Create(ctx, exec, match); err != nil {
					return fmt.Errorf("failed to create match %d-%d: %w", p.HomeTeamID, p.AwayTeamID, err)
				}
				result.Matches = append(result.Matches, *match)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixture generated",
		slog.String("category", string(input.Category)),
		slog.Int("rounds", len(result.Rounds)),
		slog.Int("matches", len(result.Matches)))

	_, err = s.notifications.Notify(ctx, Notice{
		Title:   "Fixture Publicado",
		Message: fmt.Sprintf("Ya está disponible el fixture de %s: %d fechas", input.Category.Label(), len(result.Rounds)),
		Type:    models.NotificationInfo,
	})
	if err != nil {
		s.logger.Warn("fixture broadcast failed", slog.Any("error", err))
	}
	return result, nil
}
