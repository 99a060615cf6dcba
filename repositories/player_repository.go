package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/lib/pq"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	Delete(ctx context.Context, id int) error
	SyncGoals(ctx context.Context, exec SQLExecutor, playerIDs []int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (name, number, team_id, goals)
		VALUES ($1, $2, $3, 0)
		RETURNING id, goals, created_at`

	return r.db.QueryRowContext(ctx, query, player.Name, player.Number, player.TeamID).
		Scan(&player.ID, &player.Goals, &player.CreatedAt)
}

func (r *postgresPlayerRepository) scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	if err := row.Scan(&p.ID, &p.Name, &p.Number, &p.TeamID, &p.Goals, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, name, number, team_id, goals, created_at FROM players WHERE id = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	return r.list(ctx, `SELECT id, name, number, team_id, goals, created_at FROM players ORDER BY id ASC`)
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	return r.list(ctx, `SELECT id, name, number, team_id, goals, created_at FROM players WHERE team_id = $1 ORDER BY number ASC, id ASC`, teamID)
}

func (r *postgresPlayerRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, scanErr := r.scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// SyncGoals recomputes the cached goal tally of the given players from the
// scorer lists of every played match.
func (r *postgresPlayerRepository) SyncGoals(ctx context.Context, exec SQLExecutor, playerIDs []int) error {
	if len(playerIDs) == 0 {
		return nil
	}
	query := `
		UPDATE players p SET goals = COALESCE((
			SELECT SUM((s->>'count')::int)
			FROM matches m, jsonb_array_elements(m.stats->'scorers') s
			WHERE (m.stats->>'is_played')::boolean
			  AND (s->>'player_id')::int = p.id
		), 0)
		WHERE p.id = ANY($1)`

	_, err := pick(exec, r.db).ExecContext(ctx, query, pq.Array(playerIDs))
	return err
}
