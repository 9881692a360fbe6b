// internal/app/features/projects/view.go
package projects

import (
	"context"
	"errors"
	"net/http"

	positionstore "github.com/alumconnect/alumconnect/internal/app/store/positions"
	projectstore "github.com/alumconnect/alumconnect/internal/app/store/projects"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleView handles GET /api/projects/{id}: the project plus its
// positions in creation order with open-slot counts.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "project not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := projectstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "project not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not load project", err))
		return
	}

	positions, err := positionstore.New(h.DB).ListByProject(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not load positions", err))
		return
	}

	type positionView struct {
		models.Position
		OpenSlots int `json:"open_slots"`
	}
	pv := make([]positionView, 0, len(positions))
	for _, pos := range positions {
		pv = append(pv, positionView{Position: pos, OpenSlots: pos.OpenSlots()})
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"project":   p,
		"positions": pv,
	})
}
