package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chatlift/chatlift/internal/database/models"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// ErrNoSession is returned by Require when the request carries no valid session.
var ErrNoSession = errors.New("no valid session")

// Session is the verified identity behind a request. It is derived entirely
// from token claims; no server-side lookup happens on the hot path.
type Session struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Email    string
	Name     string
	Role     Role
}

// SessionManager maps request credentials to verified sessions and issues or
// clears the session cookie. Logout is client-side only: there is no
// revocation list, a token stays valid until its natural expiry.
type SessionManager struct {
	jwt    *JWTService
	expiry time.Duration
	secure bool
}

func NewSessionManager(jwt *JWTService, expiry time.Duration, secureCookies bool) *SessionManager {
	return &SessionManager{jwt: jwt, expiry: expiry, secure: secureCookies}
}

// Current returns the session for the request, or nil when the credential is
// absent, malformed, expired, or tampered with. It never returns an error for
// those cases.
func (m *SessionManager) Current(r *http.Request) *Session {
	token := m.tokenFromRequest(r)
	if token == "" {
		return nil
	}

	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return nil
	}

	return &Session{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Email:    claims.Email,
		Name:     claims.Name,
		Role:     Role(claims.Role),
	}
}

// Require is Current for handlers that must not proceed anonymously.
func (m *SessionManager) Require(r *http.Request) (*Session, error) {
	sess := m.Current(r)
	if sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

// Start issues a token for the user and sets the session cookie on the response.
func (m *SessionManager) Start(w http.ResponseWriter, user *models.User) (string, error) {
	token, err := m.jwt.GenerateToken(user.ID, user.TenantID, user.Email, user.Name, user.Role)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.expiry.Seconds()),
	})

	return token, nil
}

// Clear deletes the session cookie. Clearing an absent cookie is a no-op.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// tokenFromRequest checks the Authorization header (API clients), the session
// cookie (dashboard), then the X-Auth-Token header (AJAX fallback).
func (m *SessionManager) tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return r.Header.Get("X-Auth-Token")
}
