package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/acadmx/notas/core/user"
	inmemdb "github.com/acadmx/notas/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	db := inmemdb.Open()
	return &commandLine{
		usrRepo: inmemdb.NewUserRepository(db),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var migrated bool
	migrateFunc = func(db *sqlx.DB) error {
		migrated = true
		return nil
	}

	args := []string{"admin", "migrate"}
	if err := cli.run(args); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	if !migrated {
		t.Error("migrate subcommand did not run the migrations")
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"adduser", "-name", "Ana Gómez"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-name", "Ana Gómez", "-email", "ana@test.edu"}, wantErr: errHelp},
		{name: "student", args: []string{"adduser", "-name", "Ana Gómez", "-email", "ana@test.edu"}, pwd: "S3cret.Pwd!"},
		{name: "teacher", args: []string{"adduser", "-name", "Luis Mora", "-email", "luis@test.edu", "-teacher"}, pwd: "S3cret.Pwd!"},
		{name: "duplicate email", args: []string{"adduser", "-name", "Ana Dos", "-email", "ana@test.edu"}, pwd: "S3cret.Pwd!", wantErr: user.ErrEmailExists},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	usr, err := cli.usrRepo.GetUserByEmail(context.Background(), "luis@test.edu")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed, %v", err)
	}
	if usr.Role != user.RoleTeacher {
		t.Errorf("Role = %s, want %s", usr.Role, user.RoleTeacher)
	}
	if err := usr.CheckPassword("S3cret.Pwd!"); err != nil {
		t.Error("stored password hash does not match")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := user.User{FullName: "Eva Rojas", Email: "eva@test.edu", Role: user.RoleStudent}
	if err := usr.SetPassword("Old.Pa55word!"); err != nil {
		t.Fatal(err)
	}
	usr, err := cli.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatal(err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "eva@test.edu"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.edu"}, pwd: "N3w.Pa55word!", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "eva@test.edu"}, pwd: "N3w.Pa55word!"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := cli.usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
