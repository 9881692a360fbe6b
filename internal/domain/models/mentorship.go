// internal/domain/models/mentorship.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mentorship request statuses. Same shape as the application lifecycle
// but without positions or completion: pending, then accepted or
// declined, both terminal.
const (
	MentorshipPending  = "pending"
	MentorshipAccepted = "accepted"
	MentorshipDeclined = "declined"
)

// MentorshipRequest is a student's request to be mentored by a specific
// alumnus. At most one non-declined request per (student, alumni) pair,
// enforced by a partial unique index.
type MentorshipRequest struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	AlumniID  primitive.ObjectID `bson:"alumni_id" json:"alumni_id"`
	Message   string             `bson:"message" json:"message"`
	Status    string             `bson:"status" json:"status"` // "pending" | "accepted" | "declined"
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
