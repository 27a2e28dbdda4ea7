package core

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type (
	// DBExecutor is the query surface repositories run against.
	// *sqlx.DB and *sqlx.Tx both satisfy it.
	DBExecutor interface {
		sqlx.ExtContext
	}

	// Atomic runs fn inside a single database transaction; fn receives the
	// transaction executor to pass down to repositories. A non-nil error from
	// fn rolls the whole transaction back.
	Atomic interface {
		RunInTx(ctx context.Context, fn func(exec DBExecutor) error) error
	}
)
