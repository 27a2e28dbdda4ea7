package user

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/acadmx/notas/core"
)

func newTestValidator() *validator.Validate {
	validate := validator.New()
	enLoc := en.New()
	translator, _ := ut.New(enLoc, enLoc).GetTranslator("en")
	core.InitValidators(validate, translator)
	RegisterValidators(validate, translator)
	return validate
}

func TestNewUserValidate(t *testing.T) {
	validate := newTestValidator()

	tests := []struct {
		name    string
		user    NewUser
		wantErr bool
	}{
		{
			name: "valid teacher",
			user: NewUser{FullName: "Laura Jiménez", Email: "laura@school.test", Password: "G0od.Pa55word!", Role: RoleTeacher},
		},
		{
			name: "valid student",
			user: NewUser{FullName: "Carlos Ruiz", Email: "carlos@school.test", Password: "G0od.Pa55word!", Role: RoleStudent},
		},
		{
			name:    "email gets cleaned and lowered",
			user:    NewUser{FullName: "Laura Jiménez", Email: "  LAURA@School.TEST ", Password: "G0od.Pa55word!", Role: RoleTeacher},
			wantErr: false,
		},
		{
			name:    "missing name",
			user:    NewUser{Email: "laura@school.test", Password: "G0od.Pa55word!", Role: RoleTeacher},
			wantErr: true,
		},
		{
			name:    "bad email",
			user:    NewUser{FullName: "Laura", Email: "not-an-email", Password: "G0od.Pa55word!", Role: RoleTeacher},
			wantErr: true,
		},
		{
			name:    "unknown role",
			user:    NewUser{FullName: "Laura", Email: "laura@school.test", Password: "G0od.Pa55word!", Role: "admin"},
			wantErr: true,
		},
		{
			name:    "too short",
			user:    NewUser{FullName: "Laura", Email: "laura@school.test", Password: "aB1!", Role: RoleTeacher},
			wantErr: true,
		},
		{
			name:    "all numeric",
			user:    NewUser{FullName: "Laura", Email: "laura@school.test", Password: "12345678", Role: RoleTeacher},
			wantErr: true,
		},
		{
			name:    "whitespace",
			user:    NewUser{FullName: "Laura", Email: "laura@school.test", Password: "aB1! aB1!cdef", Role: RoleTeacher},
			wantErr: true,
		},
		{
			name:    "no complexity",
			user:    NewUser{FullName: "Laura", Email: "laura@school.test", Password: "abcdefghij", Role: RoleTeacher},
			wantErr: true,
		},
		{
			name:    "similar to email",
			user:    NewUser{FullName: "Laura", Email: "laura@school.test", Password: "Laura@school.test1!", Role: RoleTeacher},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewUserValidate_cleansInput(t *testing.T) {
	validate := newTestValidator()

	nu := NewUser{FullName: "  Laura Jiménez  ", Email: " LAURA@School.TEST ", Password: "G0od.Pa55word!", Role: RoleTeacher}
	assert.NoError(t, nu.Validate(validate))
	assert.Equal(t, "Laura Jiménez", nu.FullName)
	assert.Equal(t, "laura@school.test", nu.Email)
}

func TestResetUserPasswordValidate(t *testing.T) {
	validate := newTestValidator()

	rp := ResetUserPassword{Token: "some-token", NewPassword: "G0od.Pa55word!"}
	assert.NoError(t, rp.Validate(validate))

	rp = ResetUserPassword{Token: "some-token", NewPassword: "weak"}
	assert.Error(t, rp.Validate(validate))

	rp = ResetUserPassword{NewPassword: "G0od.Pa55word!"}
	assert.Error(t, rp.Validate(validate))
}
