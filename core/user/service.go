package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/acadmx/notas/core"
)

var (
	// errors
	ErrNotFound     = errors.New("user not found")
	ErrEmailExists  = errors.New("a user with this email already exists")
	ErrInvalidToken = errors.New("invalid or unknown reset token")
	ErrTokenExpired = errors.New("reset token has expired")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (User, error)
		GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (User, error)
		GetUserByResetToken(ctx context.Context, token string, exec ...core.DBExecutor) (User, error)
		GetUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) ([]User, error)
		SetResetToken(ctx context.Context, userID string, token null.String, expiry null.Time, exec ...core.DBExecutor) error
		// SetPassword rotates the password hash and clears any reset token.
		SetPassword(ctx context.Context, userID string, hash []byte, exec ...core.DBExecutor) error
	}

	Service interface {
		Register(ctx context.Context, nu NewUser) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.repo.CheckEmailUniqueness(ctx, nu.Email); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return User{}, err
	}

	usr := User{
		FullName:  nu.FullName,
		Email:     nu.Email,
		Role:      nu.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// RequestPasswordReset stores a fresh time-boxed single-use token for the
// user and mails them a reset link. Returns ErrNotFound for unknown emails;
// callers must not leak that to the client.
func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := core.GenerateSecret(32)
	if err != nil {
		return errors.Wrap(err, "generating reset token")
	}
	expiry := time.Now().UTC().Add(svc.conf.PasswordResetTimeout)
	if err := svc.repo.SetResetToken(ctx, usr.ID, null.StringFrom(token), null.TimeFrom(expiry)); err != nil {
		return errors.Wrap(err, "storing reset token")
	}

	usr.ResetToken = null.StringFrom(token)
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) sendPasswordResetMail(usr User) {
	link := fmt.Sprintf("%s/reset-password?token=%s", svc.conf.FrontendBaseURL, usr.ResetToken.String)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject: "Recuperación de contraseña",
		Body: "Hola " + usr.FullName + ",\n\n" +
			"Recibimos una solicitud para restablecer tu contraseña. " +
			"Abre el siguiente enlace para continuar (expira en 1 hora):\n\n" +
			link + "\n\n" +
			"Si no solicitaste este cambio, ignora este mensaje.",
	})
}

// ResetPassword consumes a reset token: rotates the password hash and
// invalidates the token so it cannot be replayed.
func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	usr, err := svc.repo.GetUserByResetToken(ctx, rp.Token)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return ErrInvalidToken
		}
		return err
	}
	if usr.ResetTokenExpiry.Valid && usr.ResetTokenExpiry.Time.Before(time.Now().UTC()) {
		return ErrTokenExpired
	}

	if err := usr.SetPassword(rp.NewPassword); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.SetPassword(ctx, usr.ID, usr.PasswordHash)
}
