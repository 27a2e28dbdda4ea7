package main

import (
	"context"
	"time"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/user"
)

// addUser creates an account directly, bypassing the API.
func (cli *commandLine) addUser(name, email, pwd string, teacher bool) error {
	ctx := context.Background()

	usr := user.User{
		FullName:  core.CleanString(name),
		Email:     core.CleanString(email, true /* lower */),
		Role:      user.RoleStudent,
		CreatedAt: time.Now().UTC(),
	}
	if teacher {
		usr.Role = user.RoleTeacher
	}

	if err := cli.usrRepo.CheckEmailUniqueness(ctx, usr.Email); err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err := cli.usrRepo.CreateUser(ctx, usr)
	return err
}
