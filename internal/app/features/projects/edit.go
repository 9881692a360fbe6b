// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/alumconnect/alumconnect/internal/app/policy/applicationpolicy"
	projectstore "github.com/alumconnect/alumconnect/internal/app/store/projects"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/htmlsanitize"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type editProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
}

// HandleEdit handles PUT /api/projects/{id}. Owner only.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "project not found"))
		return
	}

	var req editProjectRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	switch req.Status {
	case "", models.ProjectActive, models.ProjectPaused, models.ProjectCompleted:
	default:
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeValidation, "unknown project status"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := applicationpolicy.CanReview(ctx, h.DB, r, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not check ownership", err))
		return
	}
	if !allowed {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only the project owner can edit it"))
		return
	}

	req.Title = htmlsanitize.PlainText(req.Title)
	req.Description = htmlsanitize.Sanitize(req.Description)
	req.Category = htmlsanitize.PlainText(req.Category)
	for i, t := range req.Tags {
		req.Tags[i] = htmlsanitize.PlainText(t)
	}

	store := projectstore.New(h.DB)
	if err := store.UpdateInfo(ctx, id, req.Title, req.Description, req.Category, req.Status, req.Tags); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "project not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not update project", err))
		return
	}

	p, err := store.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not load project", err))
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}
