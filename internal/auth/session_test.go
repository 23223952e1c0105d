package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlift/chatlift/internal/auth"
	"github.com/chatlift/chatlift/internal/database/models"
)

func newTestUser() *models.User {
	return &models.User{
		Base:     models.Base{ID: uuid.New()},
		Email:    "owner@example.com",
		Name:     "Owner",
		TenantID: uuid.New(),
		Role:     "owner",
	}
}

func TestSessionManager_Start(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 7*24*time.Hour)
	user := newTestUser()

	t.Run("sets session cookie with expected attributes", func(t *testing.T) {
		sessions := auth.NewSessionManager(jwtService, 7*24*time.Hour, false)

		rec := httptest.NewRecorder()
		token, err := sessions.Start(rec, user)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		cookie := cookies[0]
		assert.Equal(t, auth.SessionCookieName, cookie.Name)
		assert.Equal(t, token, cookie.Value)
		assert.Equal(t, "/", cookie.Path)
		assert.True(t, cookie.HttpOnly)
		assert.False(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	})

	t.Run("secure cookies outside development", func(t *testing.T) {
		sessions := auth.NewSessionManager(jwtService, 7*24*time.Hour, true)

		rec := httptest.NewRecorder()
		_, err := sessions.Start(rec, user)
		require.NoError(t, err)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.True(t, cookies[0].Secure)
	})
}

func TestSessionManager_Current(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	sessions := auth.NewSessionManager(jwtService, 24*time.Hour, false)
	user := newTestUser()

	token, err := jwtService.GenerateToken(user.ID, user.TenantID, user.Email, user.Name, user.Role)
	require.NoError(t, err)

	t.Run("reads bearer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		sess := sessions.Current(req)
		require.NotNil(t, sess)
		assert.Equal(t, user.ID, sess.UserID)
		assert.Equal(t, user.TenantID, sess.TenantID)
		assert.Equal(t, auth.RoleOwner, sess.Role)
	})

	t.Run("reads session cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})

		sess := sessions.Current(req)
		require.NotNil(t, sess)
		assert.Equal(t, user.ID, sess.UserID)
	})

	t.Run("reads X-Auth-Token header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("X-Auth-Token", token)

		sess := sessions.Current(req)
		require.NotNil(t, sess)
		assert.Equal(t, user.ID, sess.UserID)
	})

	t.Run("nil without credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		assert.Nil(t, sessions.Current(req))
	})

	t.Run("nil for tampered token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		assert.Nil(t, sessions.Current(req))
	})

	t.Run("nil for expired token", func(t *testing.T) {
		shortJWT := auth.NewJWTService("test-secret", 1*time.Millisecond)
		shortSessions := auth.NewSessionManager(shortJWT, 1*time.Millisecond, false)
		expired, err := shortJWT.GenerateToken(user.ID, user.TenantID, user.Email, user.Name, user.Role)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		assert.Nil(t, shortSessions.Current(req))
	})
}

func TestSessionManager_Require(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	sessions := auth.NewSessionManager(jwtService, 24*time.Hour, false)

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	_, err := sessions.Require(req)
	assert.Equal(t, auth.ErrNoSession, err)
}

func TestSessionManager_Clear(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	sessions := auth.NewSessionManager(jwtService, 24*time.Hour, false)

	rec := httptest.NewRecorder()
	sessions.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
