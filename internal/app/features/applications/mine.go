// internal/app/features/applications/mine.go
package applications

import (
	"context"
	"net/http"

	"github.com/alumconnect/alumconnect/internal/app/store/queries/studentapps"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/authz"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
)

// HandleListMine handles GET /api/students/applications: the signed-in
// user's applications, newest first, with project and position titles
// joined in.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := studentapps.List(ctx, h.DB, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not list applications", err))
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"applications": list})
}
