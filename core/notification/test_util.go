package notification

import (
	"context"
	"time"
)

// DispatcherMock creates notifications synchronously so tests can assert
// right after the triggering call returns.
type DispatcherMock struct {
	repo Repository
}

func NewDispatcherMock(repo Repository) *DispatcherMock {
	return &DispatcherMock{repo: repo}
}

func (d *DispatcherMock) Notify(userID, message, notifType string) {
	n := Notification{
		UserID:    userID,
		Message:   message,
		Type:      notifType,
		CreatedAt: time.Now().UTC(),
	}
	_, _ = d.repo.CreateNotification(context.Background(), n)
}
