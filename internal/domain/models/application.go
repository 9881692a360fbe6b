// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application statuses.
//
// The lifecycle is:
//
//	pending -> accepted (owner, capacity-guarded)
//	pending -> declined (owner, terminal)
//	pending -> withdrawn (applicant; the document is deleted)
//	accepted -> accepted + is_completed (owner, terminal, exactly once)
//
// A student may hold at most one pending-or-accepted application per
// project; that rule is a partial unique index on the collection, not an
// application-level check.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationDeclined = "declined"
)

// Application is a student's request to join a project, optionally
// scoped to one position within it.
type Application struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	ApplicantID primitive.ObjectID  `bson:"applicant_id" json:"applicant_id"`
	ProjectID   primitive.ObjectID  `bson:"project_id" json:"project_id"`
	PositionID  *primitive.ObjectID `bson:"position_id,omitempty" json:"position_id,omitempty"` // nil = general application
	Message     string              `bson:"message" json:"message"`
	Status      string              `bson:"status" json:"status"` // "pending" | "accepted" | "declined"

	// HasTeam is a snapshot of the applicant's team membership taken when
	// the application was created. It is a historical record and is never
	// re-synced if the student later joins or leaves a team.
	HasTeam bool `bson:"has_team" json:"has_team"`

	// Completion fields. IsCompleted is only meaningful for accepted
	// applications; Feedback and CompletedAt are set together, once.
	IsCompleted bool       `bson:"is_completed" json:"is_completed"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Feedback    string     `bson:"feedback,omitempty" json:"feedback,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Processed reports whether the application has been reviewed
// (accepted or declined, as opposed to still pending).
func (a Application) Processed() bool {
	return a.Status != ApplicationPending
}
