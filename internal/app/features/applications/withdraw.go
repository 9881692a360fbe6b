// internal/app/features/applications/withdraw.go
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
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleWithdraw handles DELETE /api/project-applications/{id}. Only
// the applicant can withdraw, and only while the application is still
// pending. Withdrawal removes the record, which frees the student to
// apply to the same project again.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "application not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := applicationstore.New(h.DB)
	a, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "application not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not load application", err))
		return
	}

	if !applicationpolicy.IsApplicant(r, a.ApplicantID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only the applicant can withdraw an application"))
		return
	}

	if err := store.Withdraw(ctx, id); err != nil {
		switch {
		case errors.Is(err, applicationstore.ErrInvalidTransition):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeInvalidTransition, "only a pending application can be withdrawn"))
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "application not found"))
		default:
			httpjson.Error(w, h.Log, apperr.Wrap("could not withdraw application", err))
		}
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"withdrawn": true})
}
