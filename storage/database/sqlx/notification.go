package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/notification"
)

type notificationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Message   string    `db:"message"`
	Type      string    `db:"type"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}

type notificationRepository struct {
	exec core.DBExecutor
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(exec core.DBExecutor) *notificationRepository {
	return &notificationRepository{exec: exec}
}

func (repo notificationRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

func (repo notificationRepository) unpack(row notificationRow) notification.Notification {
	return notification.Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		Message:   row.Message,
		Type:      row.Type,
		Read:      row.Read,
		CreatedAt: row.CreatedAt,
	}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	n.ID = uuid.New().String()
	row := notificationRow{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC(),
	}
	q := `INSERT INTO notifications (id, user_id, message, type, read, created_at)
	      VALUES (:id, :user_id, :message, :type, :read, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, row); err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return repo.unpack(row), nil
}

func (repo notificationRepository) QueryUserNotifications(ctx context.Context, userID string, limit int, exec ...core.DBExecutor) ([]notification.Notification, error) {
	rows := []notificationRow{}
	q := `SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q, userID, limit); err != nil {
		return nil, errors.Wrap(err, "querying user notifications")
	}
	notifs := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		notifs = append(notifs, repo.unpack(row))
	}
	return notifs, nil
}

func (repo notificationRepository) MarkNotificationRead(ctx context.Context, id, userID string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return notification.ErrNotFound
	}
	// scoping by user makes someone else's notification indistinguishable
	// from a missing one
	q := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := repo.getExec(exec).ExecContext(ctx, q, id, userID)
	if err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notification.ErrNotFound
	}
	return nil
}
