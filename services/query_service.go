package services

import (
	"context"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/standings"
	"github.com/Dosada05/lamasia-league/state"
)

// QueryService answers every read from the live snapshot. Dangling ids are
// tolerated: nothing here fails because a referenced entity is gone.
type QueryService interface {
	Teams(ctx context.Context, category *models.Category) []models.Team
	Matches(ctx context.Context, filter MatchQuery) []models.Match
	Rounds(ctx context.Context) []models.Round
	Players(ctx context.Context, teamID int) []models.Player
	Standings(ctx context.Context, category models.Category) ([]standings.Row, error)
	Scorers(ctx context.Context, category models.Category) ([]standings.RankingEntry, error)
	MVPs(ctx context.Context, category models.Category) ([]standings.RankingEntry, error)
	TeamCareer(ctx context.Context, teamID int) (*standings.Career, error)
}

type MatchQuery struct {
	Category *models.Category
	RoundID  *int
}

type queryService struct {
	reader state.Reader
}

func NewQueryService(reader state.Reader) QueryService {
	return &queryService{reader: reader}
}

func (s *queryService) Teams(ctx context.Context, category *models.Category) []models.Team {
	teams := make([]models.Team, 0)
	for _, t := range s.reader.Snapshot().Teams {
		if category == nil || t.Category == *category {
			teams = append(teams, t)
		}
	}
	return teams
}

func (s *queryService) Matches(ctx context.Context, filter MatchQuery) []models.Match {
	matches := make([]models.Match, 0)
	for _, m := range s.reader.Snapshot().Matches {
		if filter.Category != nil && m.Category != *filter.Category {
			continue
		}
		if filter.RoundID != nil && m.RoundID != *filter.RoundID {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

func (s *queryService) Rounds(ctx context.Context) []models.Round {
	rounds := s.reader.Snapshot().Rounds
	if rounds == nil {
		return []models.Round{}
	}
	return rounds
}

func (s *queryService) Players(ctx context.Context, teamID int) []models.Player {
	players := make([]models.Player, 0)
	for _, p := range s.reader.Snapshot().Players {
		if p.TeamID == teamID {
			players = append(players, p)
		}
	}
	return players
}

func (s *queryService) Standings(ctx context.Context, category models.Category) ([]standings.Row, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	snap := s.reader.Snapshot()
	return standings.Compute(snap.Teams, snap.Matches, category), nil
}

func (s *queryService) Scorers(ctx context.Context, category models.Category) ([]standings.RankingEntry, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	snap := s.reader.Snapshot()
	return standings.Scorers(snap.Matches, snap.Players, snap.Teams, category), nil
}

func (s *queryService) MVPs(ctx context.Context, category models.Category) ([]standings.RankingEntry, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	snap := s.reader.Snapshot()
	return standings.MVPs(snap.Matches, snap.Players, snap.Teams, category), nil
}

func (s *queryService) TeamCareer(ctx context.Context, teamID int) (*standings.Career, error) {
	snap := s.reader.Snapshot()
	for _, t := range snap.Teams {
		if t.ID == teamID {
			career := standings.TeamCareer(t, snap.Matches, snap.Players)
			return &career, nil
		}
	}
	return nil, ErrTeamNotFound
}
