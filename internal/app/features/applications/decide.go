// internal/app/features/applications/decide.go
package applications

import (
	"context"
	"errors"
	"net/http"

	"github.com/alumconnect/alumconnect/internal/app/policy/applicationpolicy"
	applicationstore "github.com/alumconnect/alumconnect/internal/app/store/applications"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ownedApplication loads the application addressed by {id} and verifies
// the current user owns its project. Errors are already written on
// failure.
func (h *Handler) ownedApplication(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Application, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "application not found"))
		return models.Application{}, false
	}

	a, err := applicationstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "application not found"))
			return models.Application{}, false
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not load application", err))
		return models.Application{}, false
	}

	allowed, err := applicationpolicy.CanReview(ctx, h.DB, r, a.ProjectID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not check ownership", err))
		return models.Application{}, false
	}
	if !allowed {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only the project owner can act on this application"))
		return models.Application{}, false
	}
	return a, true
}

// HandleAccept handles POST /api/project-applications/{id}/accept.
// Accepting an already-accepted application succeeds without effect.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.ownedApplication(ctx, w, r)
	if !ok {
		return
	}

	store := applicationstore.New(h.DB)
	if err := store.Accept(ctx, a.ID); err != nil {
		switch {
		case errors.Is(err, applicationstore.ErrCapacityExceeded):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeCapacityExceeded, "this position has no open slots"))
		case errors.Is(err, applicationstore.ErrInvalidTransition):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeInvalidTransition, "a declined application cannot be accepted"))
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "application not found"))
		default:
			httpjson.Error(w, h.Log, apperr.Wrap("could not accept application", err))
		}
		return
	}

	a, err := store.GetByID(ctx, a.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not load application", err))
		return
	}
	httpjson.Write(w, http.StatusOK, a)
}

// HandleDecline handles POST /api/project-applications/{id}/decline.
// Declined is terminal; re-declining conflicts like any other invalid
// transition.
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.ownedApplication(ctx, w, r)
	if !ok {
		return
	}

	store := applicationstore.New(h.DB)
	if err := store.Decline(ctx, a.ID); err != nil {
		switch {
		case errors.Is(err, applicationstore.ErrInvalidTransition):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeInvalidTransition, "only a pending application can be declined"))
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "application not found"))
		default:
			httpjson.Error(w, h.Log, apperr.Wrap("could not decline application", err))
		}
		return
	}

	a, err := store.GetByID(ctx, a.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not load application", err))
		return
	}
	httpjson.Write(w, http.StatusOK, a)
}
