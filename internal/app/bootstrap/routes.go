// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/clubhub/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/clubhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/clubhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/clubhub/internal/app/features/login"
	membersfeature "github.com/dalemusser/clubhub/internal/app/features/members"
	participationfeature "github.com/dalemusser/clubhub/internal/app/features/participation"
	registrationfeature "github.com/dalemusser/clubhub/internal/app/features/registration"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ClubHub is a JSON API: the session
// middleware loads the current user into context, and each feature router
// guards its own endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.ClubHubMongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ClubHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, logger,
		appCfg.AdminLoginID, appCfg.AdminPasswordHash)
	r.Mount("/", loginfeature.Routes(loginHandler))

	// Public membership applications
	registrationHandler := registrationfeature.NewHandler(db, errLog, logger)
	r.Mount("/registration", registrationfeature.Routes(registrationHandler))

	// Member directory, profiles, and the approval queue
	membersHandler := membersfeature.NewHandler(db, errLog, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler))

	// Events and per-event participation
	participationHandler := participationfeature.NewHandler(db, errLog, logger)
	eventsHandler := eventsfeature.NewHandler(db, errLog, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, participationHandler))

	// The member's own participation history
	r.Mount("/me", participationfeature.MeRoutes(participationHandler))

	return r, nil
}
