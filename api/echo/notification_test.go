package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadmx/notas/core/notification"
	"github.com/acadmx/notas/core/user"
)

func TestNotificationAPI(t *testing.T) {
	f := newGradeFixture(t)
	env := f.env

	// two grade updates, two notifications
	for _, corte := range []string{"corte1", "corte2"} {
		req, rec := newAuthRequest(http.MethodPost, "/api/grades", getToken(t, f.teacher),
			f.upsertBody(t, map[string]float64{corte: 4}))
		env.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	var notifs []notification.Notification
	t.Run("newest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/notifications", getToken(t, f.student))
		env.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notifs))
		require.Len(t, notifs, 2)
		assert.True(t, !notifs[0].CreatedAt.Before(notifs[1].CreatedAt))
	})

	t.Run("recipient marks read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/notifications/"+notifs[0].ID+"/read", getToken(t, f.student))
		env.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		req, rec = newAuthRequest(http.MethodGet, "/api/notifications", getToken(t, f.student))
		env.server.ServeHTTP(rec, req)
		var after []notification.Notification
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
		assert.True(t, after[0].Read)
		assert.False(t, after[1].Read)
	})

	t.Run("someone else's notification looks missing", func(t *testing.T) {
		other := env.createUser(t, "Pedro Pablo", "pedro@school.test", user.RoleStudent)
		req, rec := newAuthRequest(http.MethodPut, "/api/notifications/"+notifs[1].ID+"/read", getToken(t, other))
		env.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/notifications/deadbeef/read", getToken(t, f.student))
		env.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/notifications")
		env.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
