package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/lamasia-league/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	// Create inserts a profile under an id that already exists in identities.
	Create(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id int, role models.Role) error
	UpdateRoleAndTeam(ctx context.Context, id int, role models.Role, teamID *int) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, role, team_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at`

	err := pick(exec, r.db).QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		user.TeamID,
	).Scan(&user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Профиль уже создан параллельным запросом — это не ошибка.
		return nil
	}
	return err
}

func (r *postgresUserRepository) scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var teamID sql.NullInt64
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &teamID, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if teamID.Valid {
		id := int(teamID.Int64)
		user.TeamID = &id
	}
	return &user, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, email, name, role, team_id, created_at FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, email, name, role, team_id, created_at FROM users ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, scanErr := r.scanUser(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresUserRepository) UpdateRole(ctx context.Context, id int, role models.Role) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateRoleAndTeam(ctx context.Context, id int, role models.Role, teamID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1, team_id = $2 WHERE id = $3`, role, teamID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
