// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	applicationstore "github.com/alumconnect/alumconnect/internal/app/store/applications"
	projectstore "github.com/alumconnect/alumconnect/internal/app/store/projects"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/authz"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"github.com/alumconnect/alumconnect/internal/domain/models"
)

// HandleList handles GET /api/projects?status=&category=.
// Without a status filter, only browsable (active) projects come back;
// paused and completed projects are reachable by their owners via /mine
// and by direct link.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := projectstore.ListFilter{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
	}
	if f.Status == "" {
		f.Status = models.ProjectActive
	}

	list, err := projectstore.New(h.DB).List(ctx, f)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not list projects", err))
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"projects": list})
}

// HandleListMine handles GET /api/projects/mine: the owner dashboard,
// each project with its pending-application badge count.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := projectstore.New(h.DB).ListByOwner(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not list projects", err))
		return
	}

	type ownedProject struct {
		Project      models.Project `json:"project"`
		PendingCount int64          `json:"pending_count"`
	}
	appStore := applicationstore.New(h.DB)
	out := make([]ownedProject, 0, len(list))
	for _, p := range list {
		n, err := appStore.CountByProjectStatus(ctx, p.ID, models.ApplicationPending)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Wrap("could not count applications", err))
			return
		}
		out = append(out, ownedProject{Project: p, PendingCount: n})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"projects": out})
}
