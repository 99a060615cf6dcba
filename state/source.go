package state

import (
	"context"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/repositories"
)

// Source loads whole collections from the entity store.
type Source interface {
	Teams(ctx context.Context) ([]models.Team, error)
	Matches(ctx context.Context) ([]models.Match, error)
	Players(ctx context.Context) ([]models.Player, error)
	Rounds(ctx context.Context) ([]models.Round, error)
	Users(ctx context.Context) ([]models.User, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
}

// RepositorySource reads collections through the Postgres repositories.
type RepositorySource struct {
	TeamRepo         repositories.TeamRepository
	MatchRepo        repositories.MatchRepository
	PlayerRepo       repositories.PlayerRepository
	RoundRepo        repositories.RoundRepository
	UserRepo         repositories.UserRepository
	NotificationRepo repositories.NotificationRepository
}

func (s *RepositorySource) Teams(ctx context.Context) ([]models.Team, error) {
	return s.TeamRepo.List(ctx)
}

func (s *RepositorySource) Matches(ctx context.Context) ([]models.Match, error) {
	return s.MatchRepo.List(ctx, repositories.MatchFilter{})
}

func (s *RepositorySource) Players(ctx context.Context) ([]models.Player, error) {
	return s.PlayerRepo.List(ctx)
}

func (s *RepositorySource) Rounds(ctx context.Context) ([]models.Round, error) {
	return s.RoundRepo.List(ctx)
}

func (s *RepositorySource) Users(ctx context.Context) ([]models.User, error) {
	return s.UserRepo.List(ctx)
}

func (s *RepositorySource) Notifications(ctx context.Context) ([]models.Notification, error) {
	return s.NotificationRepo.List(ctx)
}
