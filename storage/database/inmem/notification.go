package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/notification"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(_ context.Context, n notification.Notification, _ ...core.DBExecutor) (notification.Notification, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n.ID = uuid.New().String()
	repo.db.seq++
	repo.db.notifSeq[n.ID] = repo.db.seq
	repo.db.notifications[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) QueryUserNotifications(_ context.Context, userID string, limit int, _ ...core.DBExecutor) ([]notification.Notification, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	notifs := make([]notification.Notification, 0)
	for _, n := range repo.db.notifications {
		if n.UserID == userID {
			notifs = append(notifs, *n)
		}
	}
	// newest first; insertion order breaks timestamp ties
	sort.Slice(notifs, func(i, j int) bool {
		if notifs[i].CreatedAt.Equal(notifs[j].CreatedAt) {
			return repo.db.notifSeq[notifs[i].ID] > repo.db.notifSeq[notifs[j].ID]
		}
		return notifs[i].CreatedAt.After(notifs[j].CreatedAt)
	})
	if len(notifs) > limit {
		notifs = notifs[:limit]
	}
	return notifs, nil
}

func (repo *notificationRepository) MarkNotificationRead(_ context.Context, id, userID string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n, ok := repo.db.notifications[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotFound
	}
	n.Read = true
	return nil
}
