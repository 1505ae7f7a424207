package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/auction-system/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, userID int, notifType, message string) error
	ListByUser(ctx context.Context, userID int, limit int) ([]*models.Notification, error)
}

type postgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresNotificationRepository) Create(ctx context.Context, exec SQLExecutor, userID int, notifType, message string) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`INSERT INTO notifications (user_id, type, message) VALUES ($1, $2, $3)`,
		userID, notifType, message)
	return err
}

func (r *postgresNotificationRepository) ListByUser(ctx context.Context, userID int, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, user_id, type, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
