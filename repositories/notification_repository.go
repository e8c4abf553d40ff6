package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var ErrNotificationNotFound = errors.New("notification not found")

// isUniqueViolation matches the Postgres unique_violation error code.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// NotificationRepository is the persistent outbound broadcast queue.
type NotificationRepository interface {
	Enqueue(ctx context.Context, exec SQLExecutor, n *models.Notification) error
	ListPending(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Notification, error)
	MarkSent(ctx context.Context, exec SQLExecutor, id string) error
	MarkFailed(ctx context.Context, exec SQLExecutor, id string, attempts int, lastErr string, final bool) error
}

type postgresNotificationRepository struct{}

func NewPostgresNotificationRepository() NotificationRepository {
	return &postgresNotificationRepository{}
}

func (r *postgresNotificationRepository) Enqueue(ctx context.Context, exec SQLExecutor, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, subject, body, recipients, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	return exec.QueryRowContext(ctx, query,
		n.ID, n.Subject, n.Body, pq.Array(n.Recipients), n.Status,
	).Scan(&n.CreatedAt)
}

func (r *postgresNotificationRepository) ListPending(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Notification, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id, subject, body, recipients, attempts, status, last_error, created_at
		 FROM notifications WHERE status = $1 ORDER BY created_at LIMIT $2`,
		models.NotificationPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Subject, &n.Body, pq.Array(&n.Recipients),
			&n.Attempts, &n.Status, &n.LastError, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *postgresNotificationRepository) MarkSent(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE notifications SET status = $1 WHERE id = $2`,
		models.NotificationSent, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNotificationNotFound)
}

func (r *postgresNotificationRepository) MarkFailed(ctx context.Context, exec SQLExecutor, id string, attempts int, lastErr string, final bool) error {
	status := models.NotificationPending
	if final {
		status = models.NotificationFailed
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE notifications SET attempts = $1, last_error = $2, status = $3 WHERE id = $4`,
		attempts, lastErr, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNotificationNotFound)
}
