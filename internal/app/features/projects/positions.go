// internal/app/features/projects/positions.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/alumconnect/alumconnect/internal/app/policy/applicationpolicy"
	positionstore "github.com/alumconnect/alumconnect/internal/app/store/positions"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/htmlsanitize"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type positionRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	Count          int      `json:"count"`
	IsActive       *bool    `json:"is_active"`
}

func (pr *positionRequest) sanitize() {
	pr.Title = htmlsanitize.PlainText(pr.Title)
	pr.Description = htmlsanitize.Sanitize(pr.Description)
	for i, s := range pr.RequiredSkills {
		pr.RequiredSkills[i] = htmlsanitize.PlainText(s)
	}
}

// ownedProject resolves the {id} URL param and verifies the current
// user owns that project. Errors are already written on failure.
func (h *Handler) ownedProject(ctx context.Context, w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "project not found"))
		return primitive.NilObjectID, false
	}
	allowed, err := applicationpolicy.CanReview(ctx, h.DB, r, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not check ownership", err))
		return primitive.NilObjectID, false
	}
	if !allowed {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only the project owner can manage positions"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleCreatePosition handles POST /api/projects/{id}/positions.
func (h *Handler) HandleCreatePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.sanitize()
	if strings.TrimSpace(req.Title) == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeValidation, "title is required"))
		return
	}
	if req.Count < 1 {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeValidation, "count must be at least 1"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projectID, ok := h.ownedProject(ctx, w, r)
	if !ok {
		return
	}

	p, err := positionstore.New(h.DB).Create(ctx, models.Position{
		ProjectID:      projectID,
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		Count:          req.Count,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not create position", err))
		return
	}
	httpjson.Write(w, http.StatusCreated, p)
}

// HandleEditPosition handles PUT /api/projects/{id}/positions/{positionID}.
// Shrinking the headcount below already-filled slots is rejected.
func (h *Handler) HandleEditPosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.sanitize()
	if req.Count < 1 {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeValidation, "count must be at least 1"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projectID, ok := h.ownedProject(ctx, w, r)
	if !ok {
		return
	}

	posID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "positionID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "position not found"))
		return
	}

	store := positionstore.New(h.DB)
	pos, err := store.GetByID(ctx, posID)
	if err != nil || pos.ProjectID != projectID {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "position not found"))
		return
	}

	active := pos.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if err := store.UpdateInfo(ctx, posID, req.Title, req.Description, req.RequiredSkills, req.Count, active); err != nil {
		switch {
		case errors.Is(err, positionstore.ErrCountBelowFilled):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeValidation, "count cannot be lower than filled slots"))
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "position not found"))
		default:
			httpjson.Error(w, h.Log, apperr.Wrap("could not update position", err))
		}
		return
	}

	pos, err = store.GetByID(ctx, posID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not load position", err))
		return
	}
	httpjson.Write(w, http.StatusOK, pos)
}

// HandleDeletePosition handles DELETE /api/projects/{id}/positions/{positionID}.
func (h *Handler) HandleDeletePosition(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projectID, ok := h.ownedProject(ctx, w, r)
	if !ok {
		return
	}

	posID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "positionID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "position not found"))
		return
	}

	store := positionstore.New(h.DB)
	pos, err := store.GetByID(ctx, posID)
	if err != nil || pos.ProjectID != projectID {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "position not found"))
		return
	}

	if _, err := store.Delete(ctx, posID); err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not delete position", err))
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"deleted": true})
}
