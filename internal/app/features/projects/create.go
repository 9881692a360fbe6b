// internal/app/features/projects/create.go
package projects

import (
	"context"
	"net/http"
	"strings"

	projectstore "github.com/alumconnect/alumconnect/internal/app/store/projects"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/authz"
	"github.com/alumconnect/alumconnect/internal/app/system/htmlsanitize"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"github.com/alumconnect/alumconnect/internal/domain/models"
)

type createProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// HandleCreate handles POST /api/projects. Alumni only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok || !authz.IsAlumni(r) {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only alumni can create projects"))
		return
	}

	var req createProjectRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Title = htmlsanitize.PlainText(req.Title)
	req.Description = htmlsanitize.Sanitize(req.Description)
	req.Category = htmlsanitize.PlainText(req.Category)
	if strings.TrimSpace(req.Title) == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeValidation, "title is required"))
		return
	}
	for i, t := range req.Tags {
		req.Tags[i] = htmlsanitize.PlainText(t)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := projectstore.New(h.DB).Create(ctx, models.Project{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		OwnerID:     uid,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not create project", err))
		return
	}
	httpjson.Write(w, http.StatusCreated, p)
}
