package notification

import (
	"context"

	"github.com/pkg/errors"

	"github.com/acadmx/notas/core"
)

var (
	// ErrNotFound covers both unknown ids and other users' notifications;
	// recipients of the error cannot tell the two apart.
	ErrNotFound = errors.New("notification not found")
)

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification, exec ...core.DBExecutor) (Notification, error)
		// QueryUserNotifications returns the user's notifications newest-first,
		// at most limit of them.
		QueryUserNotifications(ctx context.Context, userID string, limit int, exec ...core.DBExecutor) ([]Notification, error)
		// MarkNotificationRead flips read for the recipient's own
		// notification; ErrNotFound otherwise.
		MarkNotificationRead(ctx context.Context, id, userID string, exec ...core.DBExecutor) error
	}

	Service interface {
		QueryForUser(ctx context.Context, userID string) ([]Notification, error)
		MarkRead(ctx context.Context, userID, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryForUser(ctx context.Context, userID string) ([]Notification, error) {
	return svc.repo.QueryUserNotifications(ctx, userID, MaxListSize)
}

func (svc *service) MarkRead(ctx context.Context, userID, id string) error {
	return svc.repo.MarkNotificationRead(ctx, id, userID)
}
