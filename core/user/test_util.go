package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/acadmx/notas/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service whose password reset mail is sent
// synchronously, so tests can assert on captured messages.
func NewServiceMock(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
			conf:    conf,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
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
	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}
