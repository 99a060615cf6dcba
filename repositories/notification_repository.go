package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/lamasia-league/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id int) (*models.Notification, error)
	// List returns all notifications, newest first.
	List(ctx context.Context) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int) error
}

type postgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, created_at, read, type)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message, n.Date, n.Type).Scan(&n.ID)
}

func (r *postgresNotificationRepository) scanNotification(row rowScanner) (*models.Notification, error) {
	var n models.Notification
	var userID sql.NullInt64
	if err := row.Scan(&n.ID, &userID, &n.Title, &n.Message, &n.Date, &n.Read, &n.Type); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if userID.Valid {
		id := int(userID.Int64)
		n.UserID = &id
	}
	return &n, nil
}

func (r *postgresNotificationRepository) GetByID(ctx context.Context, id int) (*models.Notification, error) {
	query := `SELECT id, user_id, title, message, created_at, read, type FROM notifications WHERE id = $1`
	return r.scanNotification(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresNotificationRepository) List(ctx context.Context) ([]models.Notification, error) {
	query := `SELECT id, user_id, title, message, created_at, read, type FROM notifications ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		n, scanErr := r.scanNotification(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		notifications = append(notifications, *n)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips the read flag of exactly one notification.
func (r *postgresNotificationRepository) MarkRead(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNotificationNotFound)
}
