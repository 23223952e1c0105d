package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/chatlift/chatlift/internal/api/handlers"
	"github.com/chatlift/chatlift/internal/api/middleware"
	"github.com/chatlift/chatlift/internal/auth"
	"github.com/chatlift/chatlift/internal/billing"
	"github.com/chatlift/chatlift/internal/chat"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB                  *gorm.DB
	Redis               *redis.Client
	Logger              *slog.Logger
	Sessions            *auth.SessionManager
	AuthService         *auth.Service
	InvitationService   *auth.InvitationService
	WidgetService       *chat.WidgetService
	LeadService         *chat.LeadService
	ConversationService *chat.ConversationService
	BillingService      *billing.Service
	AllowedOrigins      []string // CORS allowed origins for the dashboard API
	RateLimitReqs       int      // Rate limit requests per window
	RateLimitSecs       int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Sessions)
	teamHandler := handlers.NewTeamHandler(cfg.AuthService, cfg.InvitationService, cfg.Sessions)
	widgetHandler := handlers.NewWidgetHandler(cfg.WidgetService)
	publicWidgetHandler := handlers.NewPublicWidgetHandler(cfg.WidgetService)
	leadHandler := handlers.NewLeadHandler(cfg.LeadService)
	conversationHandler := handlers.NewConversationHandler(cfg.ConversationService)
	billingHandler := handlers.NewBillingHandler(cfg.BillingService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Widget embed endpoint. Widgets load from arbitrary customer sites, so
	// CORS is wide open here and no credentials are ever involved.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         3600,
		}))
		r.Get("/widget/{publicKey}/config", publicWidgetHandler.Config)
	})

	// Dashboard API. Credentialed CORS restricted to configured origins.
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		// Public auth endpoints
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Invitation accept flow is reachable before any session exists.
		r.Get("/invitations/{token}", teamHandler.GetInvitation)
		r.Post("/invitations/{token}/accept", teamHandler.AcceptInvitation)

		// Protected routes. CSRF only bites cookie-session mutations;
		// Bearer-token clients pass through untouched.
		csrfStore := middleware.NewCSRFStore()
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Sessions))
			r.Use(middleware.CSRF(csrfStore))

			r.Get("/me", authHandler.Me)

			r.Route("/team", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermTeamManage)).
					Get("/", teamHandler.List)
				// Invites fan out emails, so cap them per user.
				r.With(
					middleware.RequirePermission(auth.PermTeamInvite),
					middleware.RateLimitByUser(30, 3600),
				).Post("/invitations", teamHandler.Invite)
				r.With(middleware.RequirePermission(auth.PermTeamManage)).
					Get("/invitations", teamHandler.ListInvitations)
				r.With(middleware.RequirePermission(auth.PermTeamManage)).
					Delete("/invitations/{id}", teamHandler.RevokeInvitation)
			})

			r.Route("/widgets", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermWidgetRead)).
					Get("/", widgetHandler.List)
				r.With(middleware.RequirePermission(auth.PermWidgetWrite)).
					Post("/", widgetHandler.Create)
				r.With(middleware.RequirePermission(auth.PermWidgetRead)).
					Get("/{id}", widgetHandler.Get)
				r.With(middleware.RequirePermission(auth.PermWidgetWrite)).
					Put("/{id}", widgetHandler.Update)
				r.With(middleware.RequirePermission(auth.PermWidgetWrite)).
					Delete("/{id}", widgetHandler.Delete)
			})

			r.Route("/leads", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermLeadRead)).
					Get("/", leadHandler.List)
				r.With(middleware.RequirePermission(auth.PermLeadRead)).
					Get("/{id}", leadHandler.Get)
				r.With(middleware.RequirePermission(auth.PermLeadWrite)).
					Put("/{id}", leadHandler.Update)
				r.With(middleware.RequirePermission(auth.PermLeadWrite)).
					Delete("/{id}", leadHandler.Delete)
			})

			r.Route("/conversations", func(r chi.Router) {
				r.Use(middleware.RequirePermission(auth.PermConversationRead))
				r.Get("/", conversationHandler.List)
				r.Get("/{id}", conversationHandler.Get)
			})

			r.Route("/billing", func(r chi.Router) {
				r.Use(middleware.RequirePermission(auth.PermBillingManage))
				r.Get("/subscription", billingHandler.GetSubscription)
				r.Post("/checkout", billingHandler.StartCheckout)
				r.Post("/portal", billingHandler.OpenPortal)
			})
		})
	})

	// Fallback for unknown routes keeps responses JSON end to end.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	})

	return &Router{r}
}
