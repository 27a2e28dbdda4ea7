package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/acadmx/notas/core"
)

const dispatchTimeout = 10 * time.Second

// Dispatcher creates notifications in the background: at-most-once,
// best-effort, non-blocking. Callers never await completion and never
// observe failures; those are logged and dropped. The dispatch outlives
// the request that triggered it.
type Dispatcher struct {
	repo   Repository
	logger core.Logger
}

func NewDispatcher(repo Repository, logger core.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, logger: logger}
}

func (d *Dispatcher) Notify(userID, message, notifType string) {
	n := Notification{
		UserID:    userID,
		Message:   message,
		Type:      notifType,
		CreatedAt: time.Now().UTC(),
	}
	go func() {
		// detached from the originating request on purpose
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if _, err := d.repo.CreateNotification(ctx, n); err != nil {
			d.logger.Warn("notification dispatch failed", errors.Wrap(err, "creating notification"))
		}
	}()
}
