// internal/app/features/applications/routes.go
package applications

import (
	"github.com/alumconnect/alumconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes covers /api/project-applications: actions addressed by
// application ID.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// OWNER DECISIONS
		pr.Post("/{id}/accept", h.HandleAccept)
		pr.Post("/{id}/decline", h.HandleDecline)
		pr.Post("/{id}/complete", h.HandleComplete)

		// APPLICANT WITHDRAWAL
		pr.Delete("/{id}", h.HandleWithdraw)
	})

	return r
}

// MineRoutes covers /api/students/applications: the signed-in student's
// own applications.
func MineRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.HandleListMine)
	})

	return r
}
