// internal/app/features/applications/complete.go
package applications

import (
	"context"
	"errors"
	"net/http"
	"strings"

	applicationstore "github.com/alumconnect/alumconnect/internal/app/store/applications"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/htmlsanitize"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

type completeRequest struct {
	Feedback string `json:"feedback"`
}

// HandleComplete handles POST /api/project-applications/{id}/complete.
// Owner only, accepted applications only, once per application. The
// feedback text becomes part of the student's permanent record for
// this project.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Feedback = strings.TrimSpace(htmlsanitize.Sanitize(req.Feedback))
	if req.Feedback == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeValidation, "feedback is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.ownedApplication(ctx, w, r)
	if !ok {
		return
	}

	store := applicationstore.New(h.DB)
	if err := store.Complete(ctx, a.ID, req.Feedback); err != nil {
		switch {
		case errors.Is(err, applicationstore.ErrInvalidTransition):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeInvalidTransition, "only an accepted, not-yet-completed application can be completed"))
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "application not found"))
		default:
			httpjson.Error(w, h.Log, apperr.Wrap("could not complete application", err))
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
