// internal/app/features/mentorship/requests.go
package mentorship

import (
	"context"
	"errors"
	"net/http"

	mentorshipstore "github.com/alumconnect/alumconnect/internal/app/store/mentorships"
	userstore "github.com/alumconnect/alumconnect/internal/app/store/users"
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

// HandleListMentors handles GET /api/mentorship/mentors: active alumni,
// alphabetical.
func (h *Handler) HandleListMentors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := userstore.New(h.DB).ListAlumni(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not list mentors", err))
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"mentors": list})
}

type mentorshipRequestBody struct {
	AlumniID string `json:"alumni_id"`
	Message  string `json:"message"`
}

// HandleRequest handles POST /api/mentorship/requests. Students only.
// One live request per (student, mentor) pair; the unique index backs
// that up under concurrency.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok || !authz.IsStudent(r) {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only students can request mentorship"))
		return
	}

	var req mentorshipRequestBody
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Message = htmlsanitize.Sanitize(req.Message)

	alumniID, err := primitive.ObjectIDFromHex(req.AlumniID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "mentor not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	mentor, err := userstore.New(h.DB).GetByID(ctx, alumniID)
	if err != nil || mentor.Role != models.RoleAlumni {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "mentor not found"))
		return
	}

	m, err := mentorshipstore.New(h.DB).Request(ctx, models.MentorshipRequest{
		StudentID: uid,
		AlumniID:  alumniID,
		Message:   req.Message,
	})
	if err != nil {
		if errors.Is(err, mentorshipstore.ErrDuplicateRequest) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeDuplicateApplication, "you already have a pending or accepted request to this mentor"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not create request", err))
		return
	}
	httpjson.Write(w, http.StatusCreated, m)
}

// HandleListRequests handles GET /api/mentorship/requests. Alumni see
// their inbox; students see the requests they sent.
func (h *Handler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := mentorshipstore.New(h.DB)
	var (
		list []models.MentorshipRequest
		err  error
	)
	if authz.IsAlumni(r) {
		list, err = store.ListForAlumni(ctx, uid)
	} else {
		list, err = store.ListForStudent(ctx, uid)
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not list requests", err))
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"requests": list})
}

// HandleAccept handles POST /api/mentorship/requests/{id}/accept.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.MentorshipAccepted)
}

// HandleDecline handles POST /api/mentorship/requests/{id}/decline.
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.MentorshipDeclined)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, status string) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "sign in required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "request not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := mentorshipstore.New(h.DB)
	m, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "request not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not load request", err))
		return
	}
	if m.AlumniID != uid {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only the requested mentor can decide"))
		return
	}

	if err := store.Decide(ctx, id, status); err != nil {
		if errors.Is(err, mentorshipstore.ErrInvalidTransition) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeInvalidTransition, "this request has already been decided"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not update request", err))
		return
	}

	m, err = store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not load request", err))
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}
