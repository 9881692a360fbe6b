// internal/app/features/projects/routes.go
package projects

import (
	"github.com/alumconnect/alumconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /api/projects requires a signed-in user.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// BROWSE / CREATE
		pr.Get("/", h.HandleList)
		pr.Post("/", h.HandleCreate)

		// OWNER DASHBOARD
		pr.Get("/mine", h.HandleListMine)

		// SINGLE PROJECT
		pr.Get("/{id}", h.HandleView)
		pr.Put("/{id}", h.HandleEdit)

		// POSITIONS
		pr.Post("/{id}/positions", h.HandleCreatePosition)
		pr.Put("/{id}/positions/{positionID}", h.HandleEditPosition)
		pr.Delete("/{id}/positions/{positionID}", h.HandleDeletePosition)

		// APPLICATIONS
		pr.Post("/{id}/apply", h.HandleApply)
		pr.Get("/{id}/applications", h.HandleReviewBoard)
	})

	return r
}
