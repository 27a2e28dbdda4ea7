package user_test

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/user"
	emailsvc "github.com/acadmx/notas/services/email"
	inmemdb "github.com/acadmx/notas/storage/database/inmem"
)

func newTestService() (user.Service, user.Repository) {
	conf := &core.Config{
		TestMode:             true,
		AppName:              "Notas",
		FrontendBaseURL:      "http://localhost:3000",
		DefaultFromEmail:     mail.Address{Address: "noreply@localhost"},
		PasswordResetTimeout: time.Hour,
	}
	db := inmemdb.Open()
	repo := inmemdb.NewUserRepository(db)
	return user.NewServiceMock(repo, emailsvc.NewConsoleServiceMock(conf), conf), repo
}

func TestService_Register(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	usr, err := svc.Register(ctx, user.NewUser{
		FullName: "Laura Jiménez",
		Email:    "laura@school.test",
		Password: "G0od.Pa55word!",
		Role:     user.RoleTeacher,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsTeacher())
	assert.NoError(t, usr.CheckPassword("G0od.Pa55word!"))
	assert.Error(t, usr.CheckPassword("something else"))

	// email is unique
	_, err = svc.Register(ctx, user.NewUser{
		FullName: "Otra Laura",
		Email:    "laura@school.test",
		Password: "G0od.Pa55word!",
		Role:     user.RoleStudent,
	})
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "email", vErr.Fields[0].Field)
}

func TestService_RequestPasswordReset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, user.NewUser{
		FullName: "Carlos Ruiz", Email: "carlos@school.test", Password: "G0od.Pa55word!", Role: user.RoleStudent})
	require.NoError(t, err)

	emailsvc.ClearSentMessages()
	require.NoError(t, svc.RequestPasswordReset(ctx, "carlos@school.test"))

	usr, err := svc.GetByEmail(ctx, "carlos@school.test")
	require.NoError(t, err)
	require.True(t, usr.ResetToken.Valid)
	require.True(t, usr.ResetTokenExpiry.Valid)
	assert.True(t, usr.ResetTokenExpiry.Time.After(time.Now()))

	require.Len(t, emailsvc.SentMessages, 1)
	assert.Contains(t, emailsvc.SentMessages[0].Body, usr.ResetToken.String)

	// unknown email bubbles up; the API layer hides it
	err = svc.RequestPasswordReset(ctx, "ghost@school.test")
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}

func TestService_ResetPassword(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, user.NewUser{
		FullName: "Carlos Ruiz", Email: "carlos@school.test", Password: "G0od.Pa55word!", Role: user.RoleStudent})
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(ctx, "carlos@school.test"))

	usr, err := svc.GetByEmail(ctx, "carlos@school.test")
	require.NoError(t, err)
	token := usr.ResetToken.String

	require.NoError(t, svc.ResetPassword(ctx, user.ResetUserPassword{Token: token, NewPassword: "An0ther.Pa55word!"}))

	usr, err = svc.GetByEmail(ctx, "carlos@school.test")
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword("An0ther.Pa55word!"))
	assert.False(t, usr.ResetToken.Valid, "token must be cleared after use")

	// single-use
	err = svc.ResetPassword(ctx, user.ResetUserPassword{Token: token, NewPassword: "Th1rd.Pa55word!"})
	assert.Equal(t, user.ErrInvalidToken, errors.Cause(err))

	// expired token
	require.NoError(t, repo.SetResetToken(ctx, usr.ID, null.StringFrom("expired-token"), null.TimeFrom(time.Now().Add(-time.Minute))))
	err = svc.ResetPassword(ctx, user.ResetUserPassword{Token: "expired-token", NewPassword: "Th1rd.Pa55word!"})
	assert.Equal(t, user.ErrTokenExpired, errors.Cause(err))
}
