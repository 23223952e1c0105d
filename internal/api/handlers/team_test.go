package handlers_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlift/chatlift/internal/api/dto"
	"github.com/chatlift/chatlift/internal/api/handlers"
	"github.com/chatlift/chatlift/internal/api/middleware"
	"github.com/chatlift/chatlift/internal/auth"
	"github.com/chatlift/chatlift/internal/database/models"
	"github.com/chatlift/chatlift/internal/testutil"
)

func setupTeamTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	authService := auth.NewService(tc.DB, tc.JWTService, 14*24*time.Hour)
	invitations := auth.NewInvitationService(tc.DB, nil, slog.Default())
	handler := handlers.NewTeamHandler(authService, invitations, tc.Sessions)

	r := chi.NewRouter()
	r.Get("/api/v1/invitations/{token}", handler.GetInvitation)
	r.Post("/api/v1/invitations/{token}/accept", handler.AcceptInvitation)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.Sessions))
		r.With(middleware.RequirePermission(auth.PermTeamManage)).
			Get("/api/v1/team", handler.List)
		r.With(middleware.RequirePermission(auth.PermTeamInvite)).
			Post("/api/v1/team/invitations", handler.Invite)
		r.With(middleware.RequirePermission(auth.PermTeamManage)).
			Get("/api/v1/team/invitations", handler.ListInvitations)
		r.With(middleware.RequirePermission(auth.PermTeamManage)).
			Delete("/api/v1/team/invitations/{id}", handler.RevokeInvitation)
	})

	return r, tc
}

func TestTeamHandler_List(t *testing.T) {
	router, tc := setupTeamTestRouter(t)
	defer tc.Cleanup()

	testutil.CreateTestUser(t, tc.DB, tc.Tenant, "agent")

	t.Run("owner lists team", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/team", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var members []dto.UserDTO
		testutil.ParseJSONResponse(t, rr, &members)
		assert.Len(t, members, 2)
	})

	t.Run("agent is forbidden", func(t *testing.T) {
		agent := testutil.CreateTestUser(t, tc.DB, tc.Tenant, "agent")
		agentToken := testutil.GenerateTestToken(t, tc.JWTService, agent)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/team", nil, agentToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestTeamHandler_Invite(t *testing.T) {
	router, tc := setupTeamTestRouter(t)
	defer tc.Cleanup()

	t.Run("owner invites an agent", func(t *testing.T) {
		body := map[string]string{"email": "invitee@example.com", "role": "agent"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/team/invitations", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.InvitationDTO
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "invitee@example.com", resp.Email)
		assert.Equal(t, "agent", resp.Role)
		assert.Equal(t, models.InvitationPending, resp.Status)
	})

	t.Run("duplicate pending invitation conflicts", func(t *testing.T) {
		body := map[string]string{"email": "twice@example.com", "role": "agent"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/team/invitations", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)

		req = testutil.AuthenticatedRequest(t, "POST", "/api/v1/team/invitations", body, tc.Token)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("existing member conflicts", func(t *testing.T) {
		body := map[string]string{"email": tc.Owner.Email, "role": "agent"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/team/invitations", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		body := map[string]string{"email": "role@example.com", "role": "admin"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/team/invitations", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("agent cannot invite", func(t *testing.T) {
		agent := testutil.CreateTestUser(t, tc.DB, tc.Tenant, "agent")
		agentToken := testutil.GenerateTestToken(t, tc.JWTService, agent)
		body := map[string]string{"email": "blocked@example.com", "role": "agent"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/team/invitations", body, agentToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestTeamHandler_GetInvitation(t *testing.T) {
	router, tc := setupTeamTestRouter(t)
	defer tc.Cleanup()

	t.Run("resolves pending invitation without auth", func(t *testing.T) {
		invitation := testutil.CreateTestInvitation(t, tc.DB, tc.Tenant.ID, tc.Owner.ID, "lookup@example.com")

		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/invitations/"+invitation.Token, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.InvitationDetails
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "lookup@example.com", resp.Email)
		assert.Equal(t, tc.Tenant.Name, resp.TenantName)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/invitations/no-such-token", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("expired invitation is gone", func(t *testing.T) {
		invitation := testutil.CreateTestInvitation(t, tc.DB, tc.Tenant.ID, tc.Owner.ID, "old@example.com")
		require.NoError(t, tc.DB.Model(invitation).
			Update("expires_at", time.Now().Add(-time.Hour)).Error)

		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/invitations/"+invitation.Token, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusGone, rr.Code)
	})
}

func TestTeamHandler_AcceptInvitation(t *testing.T) {
	router, tc := setupTeamTestRouter(t)
	defer tc.Cleanup()

	t.Run("accept creates member and session", func(t *testing.T) {
		invitation := testutil.CreateTestInvitation(t, tc.DB, tc.Tenant.ID, tc.Owner.ID, "member@example.com")
		body := map[string]string{"name": "New Member", "password": "memberpassword1"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/invitations/"+invitation.Token+"/accept", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.AuthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "member@example.com", resp.User.Email)
		assert.Equal(t, "agent", resp.User.Role)
		assert.Equal(t, tc.Tenant.ID.String(), resp.User.TenantID)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	})

	t.Run("second accept is gone", func(t *testing.T) {
		invitation := testutil.CreateTestInvitation(t, tc.DB, tc.Tenant.ID, tc.Owner.ID, "onceonly@example.com")
		body := map[string]string{"name": "Member", "password": "memberpassword1"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/invitations/"+invitation.Token+"/accept", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)

		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/invitations/"+invitation.Token+"/accept", body)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusGone, rr.Code)
	})

	t.Run("short password is rejected before any write", func(t *testing.T) {
		invitation := testutil.CreateTestInvitation(t, tc.DB, tc.Tenant.ID, tc.Owner.ID, "weak@example.com")
		body := map[string]string{"name": "Weak", "password": "short"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/invitations/"+invitation.Token+"/accept", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var stored models.Invitation
		require.NoError(t, tc.DB.First(&stored, "id = ?", invitation.ID).Error)
		assert.Equal(t, models.InvitationPending, stored.Status)
	})
}

func TestTeamHandler_RevokeInvitation(t *testing.T) {
	router, tc := setupTeamTestRouter(t)
	defer tc.Cleanup()

	t.Run("owner revokes pending invitation", func(t *testing.T) {
		invitation := testutil.CreateTestInvitation(t, tc.DB, tc.Tenant.ID, tc.Owner.ID, "revoke@example.com")

		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/team/invitations/"+invitation.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown invitation", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/team/invitations/"+tc.Owner.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/team/invitations/not-a-uuid", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
