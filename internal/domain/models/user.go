// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. The platform has exactly two kinds of people: students
// looking for projects and mentors, and alumni offering them.
const (
	RoleStudent = "student"
	RoleAlumni  = "alumni"
)

// User account statuses.
const (
	UserActive   = "active"
	UserDisabled = "disabled"
)

// User is an account on the platform. Accounts are provisioned by the
// identity provider; this service reads them for role lookups and for
// joining display fields into application listings.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName       string             `bson:"full_name" json:"full_name"`
	FullNameCI     string             `bson:"full_name_ci" json:"-"`
	Email          string             `bson:"email" json:"email"`
	Role           string             `bson:"role" json:"role"` // "student" | "alumni"
	GraduationYear int                `bson:"graduation_year,omitempty" json:"graduation_year,omitempty"`
	Department     string             `bson:"department,omitempty" json:"department,omitempty"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
