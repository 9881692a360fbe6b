// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/alumconnect/alumconnect/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role (lowercased), name, Mongo ObjectID,
// and a found flag. ok=true guarantees a valid, authenticated user with
// a well-formed ObjectID; a malformed id in the credential fails closed.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsStudent reports whether the current request's user is a student.
func IsStudent(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "student"
}

// IsAlumni reports whether the current request's user is an alumnus.
func IsAlumni(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "alumni"
}
