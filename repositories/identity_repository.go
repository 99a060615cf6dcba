package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/lamasia-league/models"
)

var (
	ErrIdentityNotFound      = errors.New("identity not found")
	ErrIdentityEmailConflict = errors.New("identity email conflict")
)

type IdentityRepository interface {
	Create(ctx context.Context, exec SQLExecutor, identity *models.Identity) error
	GetByID(ctx context.Context, id int) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
}

type postgresIdentityRepository struct {
	db *sql.DB
}

func NewPostgresIdentityRepository(db *sql.DB) IdentityRepository {
	return &postgresIdentityRepository{db: db}
}

func (r *postgresIdentityRepository) Create(ctx context.Context, exec SQLExecutor, identity *models.Identity) error {
	query := `
		INSERT INTO identities (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := pick(exec, r.db).QueryRowContext(ctx, query, identity.Email, identity.PasswordHash, identity.DisplayName).
		Scan(&identity.ID, &identity.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "identities_email_key", "identities_email_lower_key") {
			return ErrIdentityEmailConflict
		}
		return err
	}
	return nil
}

func (r *postgresIdentityRepository) scanIdentity(row rowScanner) (*models.Identity, error) {
	var identity models.Identity
	if err := row.Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.DisplayName, &identity.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (r *postgresIdentityRepository) GetByID(ctx context.Context, id int) (*models.Identity, error) {
	query := `SELECT id, email, password_hash, display_name, created_at FROM identities WHERE id = $1`
	return r.scanIdentity(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresIdentityRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query := `SELECT id, email, password_hash, display_name, created_at FROM identities WHERE lower(email) = lower($1)`
	return r.scanIdentity(r.db.QueryRowContext(ctx, query, email))
}
