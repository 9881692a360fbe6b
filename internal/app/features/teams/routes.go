// internal/app/features/teams/routes.go
package teams

import (
	"github.com/alumconnect/alumconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Get("/mine", h.HandleMine)
		pr.Post("/join", h.HandleJoin)
		pr.Post("/leave", h.HandleLeave)
	})

	return r
}
