// internal/app/features/projects/apply.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/alumconnect/alumconnect/internal/app/policy/applicationpolicy"
	applicationstore "github.com/alumconnect/alumconnect/internal/app/store/applications"
	positionstore "github.com/alumconnect/alumconnect/internal/app/store/positions"
	projectstore "github.com/alumconnect/alumconnect/internal/app/store/projects"
	teamstore "github.com/alumconnect/alumconnect/internal/app/store/teams"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/authz"
	"github.com/alumconnect/alumconnect/internal/app/system/htmlsanitize"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type applyRequest struct {
	PositionID string `json:"position_id"` // empty = general application
	Message    string `json:"message"`
}

// HandleApply handles POST /api/projects/{id}/apply.
//
// The eligibility gate runs here, in order: the applicant must be a
// student and not the owner, the project must exist and be active, and
// a position-scoped application needs a position that belongs to this
// project and is open. A full position still takes applications; the
// headcount is enforced when the owner accepts, not here. The duplicate
// rule is not checked here either; the insert surfaces it via the
// unique index, so two simultaneous submits cannot both pass.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok || role != models.RoleStudent {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only students can apply"))
		return
	}

	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "project not found"))
		return
	}

	var req applyRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Message = htmlsanitize.Sanitize(req.Message)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, err := projectstore.New(h.DB).GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "project not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not load project", err))
		return
	}

	if !applicationpolicy.CanApply(r, project.OwnerID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "owners cannot apply to their own project"))
		return
	}
	if project.Status != models.ProjectActive {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeClosed, "this project is not accepting applications"))
		return
	}

	var positionID *primitive.ObjectID
	if req.PositionID != "" {
		pid, err := primitive.ObjectIDFromHex(req.PositionID)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "position not found"))
			return
		}
		pos, err := positionstore.New(h.DB).GetByID(ctx, pid)
		if err != nil || pos.ProjectID != projectID {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "position not found"))
			return
		}
		if !pos.IsActive {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodePositionClosed, "this position is closed"))
			return
		}
		positionID = &pid
	}

	hasTeam, err := teamstore.New(h.DB).HasTeam(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not check team membership", err))
		return
	}

	a, err := applicationstore.New(h.DB).Submit(ctx, models.Application{
		ApplicantID: uid,
		ProjectID:   projectID,
		PositionID:  positionID,
		Message:     req.Message,
		HasTeam:     hasTeam,
	})
	if err != nil {
		if errors.Is(err, applicationstore.ErrDuplicateApplication) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeDuplicateApplication, "you already have a pending or accepted application for this project"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not submit application", err))
		return
	}
	httpjson.Write(w, http.StatusCreated, a)
}
