package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadmx/notas/core/user"
)

func TestAuthAPI_register(t *testing.T) {
	env := setupTestServer(t)

	body := marchallObj(t, user.NewUser{
		FullName: "Laura Jiménez",
		Email:    "laura@school.test",
		Password: testPassword,
		Role:     user.RoleTeacher,
	})
	req, rec := newRequest(http.MethodPost, "/api/auth/register", body)
	env.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "laura@school.test", resp.User.Email)
	assert.Equal(t, user.RoleTeacher, resp.User.Role)
	assert.NotEmpty(t, resp.User.ID)
}

func TestAuthAPI_register_invalid(t *testing.T) {
	env := setupTestServer(t)
	env.createUser(t, "Laura Jiménez", "laura@school.test", user.RoleTeacher)

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte("{}"),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: marchallObj(t, user.NewUser{
				FullName: "Otra Laura", Email: "laura@school.test", Password: testPassword, Role: user.RoleStudent}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown role",
			body: marchallObj(t, user.NewUser{
				FullName: "Pedro Pablo", Email: "pedro@school.test", Password: testPassword, Role: "admin"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "weak password",
			body: marchallObj(t, user.NewUser{
				FullName: "Pedro Pablo", Email: "pedro@school.test", Password: "12345678", Role: user.RoleStudent}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/register", tt.body)
			env.server.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestAuthAPI_login(t *testing.T) {
	env := setupTestServer(t)
	env.createUser(t, "Carlos Ruiz", "carlos@school.test", user.RoleStudent)

	tests := []httpTest{
		{
			name:     "valid credentials",
			body:     marchallObj(t, LoginRequest{Email: "carlos@school.test", Password: testPassword}),
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong password",
			body:     marchallObj(t, LoginRequest{Email: "carlos@school.test", Password: "nope-nope-1!A"}),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown email is indistinguishable from wrong password",
			body:     marchallObj(t, LoginRequest{Email: "ghost@school.test", Password: testPassword}),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "missing fields",
			body:     []byte("{}"),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/login", tt.body)
			env.server.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode == http.StatusOK {
				var resp AuthResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.AccessToken)
				assert.Equal(t, "carlos@school.test", resp.User.Email)
			}
		})
	}
}

func TestAuthAPI_me(t *testing.T) {
	env := setupTestServer(t)
	usr := env.createUser(t, "Carlos Ruiz", "carlos@school.test", user.RoleStudent)

	t.Run("authenticated", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/auth/me", getToken(t, usr))
		env.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, usr.ID, got.ID)
		assert.Equal(t, usr.Email, got.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodGet, "/api/auth/me")
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func TestAuthAPI_passwordReset(t *testing.T) {
	env := setupTestServer(t)
	env.createUser(t, "Carlos Ruiz", "carlos@school.test", user.RoleStudent)

	// the generic answer never leaks whether the email exists
	for _, email := range []string{"carlos@school.test", "ghost@school.test"} {
		req, rec := newRequest(http.MethodPost, "/api/auth/forgot-password", marchallObj(t, PasswordResetRequest{Email: email}))
		env.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	// the stored token completes the reset
	stored, err := env.userSvc.GetByEmail(context.Background(), "carlos@school.test")
	require.NoError(t, err)
	require.True(t, stored.ResetToken.Valid)

	newPwd := "An0ther.Pa55word!"
	body := marchallObj(t, user.ResetUserPassword{Token: stored.ResetToken.String, NewPassword: newPwd})
	req, rec := newRequest(http.MethodPost, "/api/auth/reset-password", body)
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// old password rejected, new one accepted
	req, rec = newRequest(http.MethodPost, "/api/auth/login", marchallObj(t, LoginRequest{Email: "carlos@school.test", Password: testPassword}))
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req, rec = newRequest(http.MethodPost, "/api/auth/login", marchallObj(t, LoginRequest{Email: "carlos@school.test", Password: newPwd}))
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// token is single-use
	req, rec = newRequest(http.MethodPost, "/api/auth/reset-password", body)
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
