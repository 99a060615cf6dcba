package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/repositories"
)

type loader struct {
	tx         repositories.Transactor
	teamRepo   repositories.TeamRepository
	roundRepo  repositories.RoundRepository
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
	logger     *slog.Logger
}

type summary struct {
	Teams, Rounds, Players, Matches int
}

// Load inserts the fixture. Teams and players are created one by one;
// rounds, matches and the goal tally go in a single transaction.
func (l *loader) Load(ctx context.Context, f *Fixture) (*summary, error) {
	teamIDs := make(map[string]int, len(f.Teams))
	for _, t := range f.Teams {
		team := &models.Team{Name: t.Name, Category: t.Category, Color: t.Color}
		if team.Color == "" {
			team.Color = models.TeamColors[0]
		}
		if err := l.teamRepo.Create(ctx, team); err != nil {
			return nil, fmt.Errorf("team %q: %w", t.Key, err)
		}
		teamIDs[t.Key] = team.ID
	}

	playerIDs := make(map[string]int, len(f.Players))
	for _, p := range f.Players {
		player := &models.Player{Name: p.Name, Number: p.Number, TeamID: teamIDs[p.Team]}
		if err := l.playerRepo.Create(ctx, player); err != nil {
			return nil, fmt.Errorf("player %q: %w", p.Key, err)
		}
		playerIDs[p.Key] = player.ID
	}

	matches := 0
	err := l.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		roundIDs := make(map[string]int, len(f.Rounds))
		for _, r := range f.Rounds {
			round := &models.Round{Name: r.Name, Date: r.Date}
			if err := l.roundRepo.Create(ctx, exec, round); err != nil {
				return fmt.Errorf("round %q: %w", r.Key, err)
			}
			roundIDs[r.Key] = round.ID
		}

		scorers := make([]int, 0)
		for i, m := range f.Matches {
			match := &models.Match{
				RoundID:    roundIDs[m.Round],
				Category:   m.Category,
				Date:       m.Date,
				HomeTeamID: teamIDs[m.Home],
				AwayTeamID: teamIDs[m.Away],
				Stats:      resultStats(m.Result, playerIDs),
			}
			if err := l.matchRepo.Create(ctx, exec, match); err != nil {
				return fmt.Errorf("match #%d: %w", i+1, err)
			}
			for _, s := range match.Stats.Scorers {
				scorers = append(scorers, s.PlayerID)
			}
			matches++
		}
		if len(scorers) == 0 {
			return nil
		}
		return l.playerRepo.SyncGoals(ctx, exec, scorers)
	})
	if err != nil {
		return nil, err
	}

	s := &summary{Teams: len(teamIDs), Rounds: len(f.Rounds), Players: len(playerIDs), Matches: matches}
	l.logger.Info("fixture loaded",
		slog.Int("teams", s.Teams),
		slog.Int("rounds", s.Rounds),
		slog.Int("players", s.Players),
		slog.Int("matches", s.Matches))
	return s, nil
}

func resultStats(result *ResultFixture, playerIDs map[string]int) models.MatchStats {
	stats := models.MatchStats{Scorers: []models.ScorerEntry{}}
	if result == nil {
		return stats
	}
	stats.HomeScore = result.Home
	stats.AwayScore = result.Away
	stats.IsPlayed = true
	for _, s := range result.Scorers {
		stats.Scorers = append(stats.Scorers, models.ScorerEntry{PlayerID: playerIDs[s.Player], Count: s.Count})
	}
	if result.MVP != "" {
		id := playerIDs[result.MVP]
		stats.MVPPlayerID = &id
	}
	return stats
}
