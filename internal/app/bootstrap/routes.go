// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	applicationsfeature "github.com/alumconnect/alumconnect/internal/app/features/applications"
	healthfeature "github.com/alumconnect/alumconnect/internal/app/features/health"
	mentorshipfeature "github.com/alumconnect/alumconnect/internal/app/features/mentorship"
	projectsfeature "github.com/alumconnect/alumconnect/internal/app/features/projects"
	teamsfeature "github.com/alumconnect/alumconnect/internal/app/features/teams"
	"github.com/alumconnect/alumconnect/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. AlumConnect applies identity
// middleware globally and mounts the JSON API feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	authMgr, err := auth.NewManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("auth manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global identity middleware: resolves the bearer token or session
	// cookie into a SessionUser in the request context.
	r.Use(authMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Get("/health", healthHandler.Serve)

	// Projects, positions, applying, and the owner's review board.
	projectsHandler := projectsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/projects", projectsfeature.Routes(projectsHandler))

	// Application decisions and the student's own applications.
	applicationsHandler := applicationsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/project-applications", applicationsfeature.Routes(applicationsHandler))
	r.Mount("/api/students/applications", applicationsfeature.MineRoutes(applicationsHandler))

	// Mentorship directory and requests.
	mentorshipHandler := mentorshipfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/mentorship", mentorshipfeature.Routes(mentorshipHandler))

	// Student teams.
	teamsHandler := teamsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/teams", teamsfeature.Routes(teamsHandler))

	return r, nil
}
