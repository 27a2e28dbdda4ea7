package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/user"
)

type userRow struct {
	ID               string      `db:"id"`
	FullName         string      `db:"full_name"`
	Email            string      `db:"email"`
	Role             string      `db:"role"`
	PasswordHash     []byte      `db:"password_hash"`
	CreatedAt        time.Time   `db:"created_at"`
	ResetToken       null.String `db:"reset_token"`
	ResetTokenExpiry null.Time   `db:"reset_token_expiry"`
}

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{exec: exec}
}

func (repo userRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

func (repo userRepository) pack(usr user.User) userRow {
	return userRow{
		ID:               usr.ID,
		FullName:         usr.FullName,
		Email:            usr.Email,
		Role:             string(usr.Role),
		PasswordHash:     usr.PasswordHash,
		CreatedAt:        usr.CreatedAt.UTC(),
		ResetToken:       usr.ResetToken,
		ResetTokenExpiry: usr.ResetTokenExpiry,
	}
}

func (repo userRepository) unpack(row userRow) user.User {
	return user.User{
		ID:               row.ID,
		FullName:         row.FullName,
		Email:            row.Email,
		Role:             user.Role(row.Role),
		PasswordHash:     row.PasswordHash,
		CreatedAt:        row.CreatedAt,
		ResetToken:       row.ResetToken,
		ResetTokenExpiry: row.ResetTokenExpiry,
	}
}

func (repo userRepository) unpackSlice(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, repo.unpack(row))
	}
	return users
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, exec ...core.DBExecutor) error {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &exists, q, email); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()
	row := repo.pack(usr)
	q := `INSERT INTO users (id, full_name, email, role, password_hash, created_at, reset_token, reset_token_expiry)
	      VALUES (:id, :full_name, :email, :role, :password_hash, :created_at, :reset_token, :reset_token_expiry)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, row); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return repo.unpack(row), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	var row userRow
	q := `SELECT * FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
	}
	return repo.unpack(row), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	var row userRow
	q := `SELECT * FROM users WHERE email = $1`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, email); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by email")
	}
	return repo.unpack(row), nil
}

func (repo userRepository) GetUserByResetToken(ctx context.Context, token string, exec ...core.DBExecutor) (user.User, error) {
	var row userRow
	q := `SELECT * FROM users WHERE reset_token = $1`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, token); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by reset token")
	}
	return repo.unpack(row), nil
}

func (repo userRepository) GetUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) ([]user.User, error) {
	rows := []userRow{}
	q := `SELECT * FROM users WHERE id = ANY($1) ORDER BY full_name`
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "querying users by ID")
	}
	return repo.unpackSlice(rows), nil
}

func (repo userRepository) SetResetToken(ctx context.Context, userID string, token null.String, expiry null.Time, exec ...core.DBExecutor) error {
	q := `UPDATE users SET reset_token = $2, reset_token_expiry = $3 WHERE id = $1`
	res, err := repo.getExec(exec).ExecContext(ctx, q, userID, token, expiry)
	if err != nil {
		return errors.Wrap(err, "setting reset token")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo userRepository) SetPassword(ctx context.Context, userID string, hash []byte, exec ...core.DBExecutor) error {
	q := `UPDATE users SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL WHERE id = $1`
	res, err := repo.getExec(exec).ExecContext(ctx, q, userID, hash)
	if err != nil {
		return errors.Wrap(err, "setting password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}
