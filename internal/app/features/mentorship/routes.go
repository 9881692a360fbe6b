// internal/app/features/mentorship/routes.go
package mentorship

import (
	"github.com/alumconnect/alumconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// DIRECTORY
		pr.Get("/mentors", h.HandleListMentors)

		// REQUESTS
		pr.Post("/requests", h.HandleRequest)
		pr.Get("/requests", h.HandleListRequests)
		pr.Post("/requests/{id}/accept", h.HandleAccept)
		pr.Post("/requests/{id}/decline", h.HandleDecline)
	})

	return r
}
