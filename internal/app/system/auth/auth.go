// internal/app/system/auth/auth.go

// Package auth carries the identity asserted by the external identity
// provider into request context.
//
// This service does not implement login, registration, or OAuth flows.
// The identity provider hands callers one of two credentials, both
// signed with the shared session key and trusted blindly here:
//
//   - a session cookie (browser clients), via gorilla/sessions
//   - a bearer token (API clients), a securecookie-encoded SessionUser
//     in the Authorization header
//
// LoadSessionUser decodes whichever is present and puts a SessionUser in
// the request context; RequireSignedIn turns its absence into a 401.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userNameKey  = "user_name"
	userEmailKey = "user_email"
	userRoleKey  = "user_role"

	bearerTokenName = "alumconnect-identity"
)

// SessionUser is what the identity provider asserts about the caller.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// Manager decodes identity credentials. Construct once at startup with
// NewManager and install its LoadSessionUser middleware globally.
type Manager struct {
	store       *sessions.CookieStore
	codec       *securecookie.SecureCookie
	sessionName string
	log         *zap.Logger
}

// NewManager builds a Manager from the shared session key. The key must
// match the one the identity provider signs credentials with.
func NewManager(sessionKey, sessionName, domain string, secure bool, log *zap.Logger) (*Manager, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, ErrEmptySessionKey
	}
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	codec := securecookie.New([]byte(sessionKey), nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &Manager{store: store, codec: codec, sessionName: sessionName, log: log}, nil
}

// ErrEmptySessionKey is returned by NewManager when no signing key is
// configured; starting without one would make every credential valid.
var ErrEmptySessionKey = errEmptySessionKey{}

type errEmptySessionKey struct{}

func (errEmptySessionKey) Error() string { return "session key must not be empty" }

// CurrentUser returns the user in context and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user directly into the request context,
// bypassing credential decoding. Tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// LoadSessionUser injects the caller's identity into context when a
// valid credential is present. Requests without one pass through
// unauthenticated; route guards decide whether that matters.
func (m *Manager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := m.userFromBearer(r); ok {
			next.ServeHTTP(w, withUser(r, u))
			return
		}
		if u, ok := m.userFromSession(r); ok {
			next.ServeHTTP(w, withUser(r, u))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Manager) userFromBearer(r *http.Request) (*SessionUser, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return nil, false
	}
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return nil, false
	}
	var u SessionUser
	if err := m.codec.Decode(bearerTokenName, strings.TrimSpace(token), &u); err != nil {
		m.log.Debug("bearer token rejected", zap.Error(err))
		return nil, false
	}
	if u.ID == "" {
		return nil, false
	}
	return &u, true
}

func (m *Manager) userFromSession(r *http.Request) (*SessionUser, bool) {
	sess, err := m.store.Get(r, m.sessionName)
	if err != nil {
		return nil, false
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil, false
	}
	u := &SessionUser{
		ID:    getString(sess, userIDKey),
		Name:  getString(sess, userNameKey),
		Email: getString(sess, userEmailKey),
		Role:  getString(sess, userRoleKey),
	}
	if u.ID == "" {
		return nil, false
	}
	return u, true
}

// IssueToken mints a bearer token for the given user, signed with the
// shared key. The identity provider is the normal issuer; this exists
// for tests and local tooling.
func (m *Manager) IssueToken(u SessionUser) (string, error) {
	return m.codec.Encode(bearerTokenName, u)
}

// RequireSignedIn ensures a user is present in context. API callers get
// a JSON 401; there is no HTML surface to redirect to.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
	})
}

func getString(sess *sessions.Session, key string) string {
	s, _ := sess.Values[key].(string)
	return s
}
