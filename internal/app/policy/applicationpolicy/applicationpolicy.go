// internal/app/policy/applicationpolicy/applicationpolicy.go
package applicationpolicy

import (
	"context"
	"net/http"

	"github.com/alumconnect/alumconnect/internal/app/system/authz"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OwnsProject reports whether the given user owns the given project
// according to the authoritative projects collection.
func OwnsProject(ctx context.Context, db *mongo.Database, projectID, userID primitive.ObjectID) (bool, error) {
	n, err := db.Collection("projects").CountDocuments(ctx, bson.M{
		"_id":      projectID,
		"owner_id": userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanReview reports whether the current request user may review
// applications to the project: only the project's owner can, regardless
// of role. Returns (false, nil) for "not authorized" and (false, err)
// for a database failure, so callers can tell the two apart.
func CanReview(ctx context.Context, db *mongo.Database, r *http.Request, projectID primitive.ObjectID) (bool, error) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	return OwnsProject(ctx, db, projectID, uid)
}

// CanApply reports whether the current request user may submit an
// application: students only, never the project's own owner.
func CanApply(r *http.Request, projectOwnerID primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role != models.RoleStudent {
		return false
	}
	return uid != projectOwnerID
}

// IsApplicant reports whether the current request user submitted the
// application, for withdraw.
func IsApplicant(r *http.Request, applicantID primitive.ObjectID) bool {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return uid == applicantID
}
