// Package app assembles repositories, services and HTTP routes.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"trademind/internal/config"
	"trademind/internal/middleware"
	"trademind/internal/modules/admin"
	"trademind/internal/modules/auth"
	"trademind/internal/modules/journal"
	"trademind/internal/modules/live"
	"trademind/internal/modules/payment"
	"trademind/internal/modules/profile"
	"trademind/internal/modules/upload"
	"trademind/internal/notification"
	"trademind/internal/pkg/jwt"
	"trademind/internal/repository"
	"trademind/internal/session"
)

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	// Sessions defaults to the gorm session registry.
	Sessions auth.SessionStore
	// Notifier defaults to notification.Noop.
	Notifier notification.Publisher
}

type App struct {
	Router *gin.Engine
	Hub    *live.Hub
	Auth   *auth.Service
}

// RolePolicy builds the admin policy from config. The email heuristic is
// only added when enabled.
func RolePolicy(cfg *config.Config) repository.RolePolicy {
	policy := repository.AdminEmailList(cfg.Auth.AdminEmails)
	if cfg.Auth.AdminHeuristic {
		log.Warn().Msg("ADMIN_EMAIL_HEURISTIC is on: any email containing 'admin' becomes an admin")
		policy = repository.AnyOf(policy, repository.EmailContainsAdmin)
	}
	return policy
}

func New(d Deps) *App {
	cfg := d.Config
	if d.Sessions == nil {
		d.Sessions = repository.NewSessionRepository(d.DB)
	}
	if d.Notifier == nil {
		d.Notifier = notification.Noop{}
	}

	accountRepo := repository.NewAccountRepository(d.DB)
	profileRepo := repository.NewProfileRepository(d.DB, RolePolicy(cfg))
	journalRepo := repository.NewJournalRepository(d.DB)

	tokens := jwt.New(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	authService := auth.NewService(accountRepo, d.Sessions, tokens, profileRepo, auth.Options{
		RequireConfirm: cfg.Auth.RequireConfirm,
		BcryptCost:     cfg.Auth.BcryptCost,
		SessionTTL:     cfg.Auth.SessionStoreTTL,
	})

	authHandler := auth.NewHandler(authService, profileRepo)
	profileHandler := profile.NewHandler(profileRepo)
	paymentHandler := payment.NewHandler(payment.NewService(profileRepo))
	uploadHandler := upload.NewHandler(upload.NewService(
		repository.NewUploadRepository(d.DB), cfg.Uploads.Dir, upload.DefaultURLPrefix, cfg.Uploads.MaxBytes))
	journalHandler := journal.NewHandler(journal.NewService(journalRepo))
	adminHandler := admin.NewHandler(admin.NewService(profileRepo, d.Notifier))

	hub := live.NewHub()
	liveHandler := live.NewHandler(authService, profileRepo, session.Options{
		MaxAttempts: cfg.Session.MaxAttempts,
		RetryDelay:  cfg.Session.RetryDelay,
	}, hub, middleware.OriginAllowed(cfg.CORSAllowedOrigins))

	r := gin.New()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	uploadHandler.RegisterStatic(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		liveHandler.RegisterRoutes(v1)

		authed := v1.Group("")
		authed.Use(middleware.Authenticate(authService))
		profileHandler.RegisterRoutes(authed)
		uploadHandler.RegisterRoutes(authed)

		withProfile := authed.Group("")
		withProfile.Use(middleware.LoadProfile(profileRepo))
		paymentHandler.RegisterProtectedRoutes(withProfile)

		adminGroup := withProfile.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		adminHandler.RegisterRoutes(adminGroup)

		appGroup := withProfile.Group("")
		appGroup.Use(middleware.RequireApp())
		journalHandler.RegisterRoutes(appGroup)
	}

	return &App{Router: r, Hub: hub, Auth: authService}
}
