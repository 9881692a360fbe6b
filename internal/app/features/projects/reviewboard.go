// internal/app/features/projects/reviewboard.go
package projects

import (
	"context"
	"net/http"

	"github.com/alumconnect/alumconnect/internal/app/policy/applicationpolicy"
	"github.com/alumconnect/alumconnect/internal/app/store/queries/reviewboard"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleReviewBoard handles GET /api/projects/{id}/applications?filter=.
// Owner only. filter is all (default), team, or individual.
func (h *Handler) HandleReviewBoard(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "project not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := applicationpolicy.CanReview(ctx, h.DB, r, projectID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not check ownership", err))
		return
	}
	if !allowed {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only the project owner can review applications"))
		return
	}

	board, err := reviewboard.Build(ctx, h.DB, projectID, r.URL.Query().Get("filter"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not build review board", err))
		return
	}
	httpjson.Write(w, http.StatusOK, board)
}
