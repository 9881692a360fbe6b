// internal/app/features/teams/teams.go
package teams

import (
	"context"
	"errors"
	"net/http"
	"strings"

	teamstore "github.com/alumconnect/alumconnect/internal/app/store/teams"
	userstore "github.com/alumconnect/alumconnect/internal/app/store/users"
	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/authz"
	"github.com/alumconnect/alumconnect/internal/app/system/htmlsanitize"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"github.com/alumconnect/alumconnect/internal/app/system/timeouts"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

// HandleCreate handles POST /api/teams. Students only; one team per
// student at a time.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok || !authz.IsStudent(r) {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only students can create teams"))
		return
	}

	var req createTeamRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = htmlsanitize.PlainText(req.Name)
	if strings.TrimSpace(req.Name) == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeValidation, "name is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := teamstore.New(h.DB)
	already, err := store.HasTeam(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not check team membership", err))
		return
	}
	if already {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeInvalidTransition, "you are already on a team"))
		return
	}

	t, err := store.Create(ctx, req.Name, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not create team", err))
		return
	}
	httpjson.Write(w, http.StatusCreated, t)
}

type joinTeamRequest struct {
	JoinCode string `json:"join_code"`
}

// HandleJoin handles POST /api/teams/join. Students only; joining twice
// with the same code is a no-op success.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok || !authz.IsStudent(r) {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "only students can join teams"))
		return
	}

	var req joinTeamRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.JoinCode) == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeValidation, "join_code is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := teamstore.New(h.DB)

	// A student on one team cannot join a second one.
	if current, err := store.TeamOf(ctx, uid); err == nil && current.JoinCode != strings.ToUpper(strings.TrimSpace(req.JoinCode)) {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeInvalidTransition, "leave your current team before joining another"))
		return
	} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, h.Log, apperr.Wrap("could not check team membership", err))
		return
	}

	t, err := store.Join(ctx, req.JoinCode, uid)
	if err != nil && !errors.Is(err, teamstore.ErrAlreadyMember) {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "no team with that join code"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not join team", err))
		return
	}
	httpjson.Write(w, http.StatusOK, t)
}

// HandleLeave handles POST /api/teams/leave.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := teamstore.New(h.DB)
	t, err := store.TeamOf(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.New(apperr.CodeNotFound, "you are not on a team"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not check team membership", err))
		return
	}

	if err := store.Leave(ctx, t.ID, uid); err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not leave team", err))
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"left": true})
}

// HandleMine handles GET /api/teams/mine: the caller's team with member
// profiles joined in.
func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.New(apperr.CodeForbidden, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := teamstore.New(h.DB).TeamOf(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Write(w, http.StatusOK, map[string]any{"team": nil})
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap("could not load team", err))
		return
	}

	users, err := userstore.New(h.DB).GetMany(ctx, t.MemberIDs)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap("could not load members", err))
		return
	}
	members := make([]models.User, 0, len(t.MemberIDs))
	for _, id := range t.MemberIDs {
		if u, ok := users[id]; ok {
			members = append(members, u)
		}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"team": t, "members": members})
}
