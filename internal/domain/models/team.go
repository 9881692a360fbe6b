// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is a student-registered group. Membership is embedded as an array
// of user ids; teams stay small (a handful of students), so there is no
// join collection.
//
// The application ledger only ever asks "did this student have a team
// when they applied?"; the answer is snapshotted onto the application
// and never re-synced.
type Team struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	Name      string               `bson:"name" json:"name"`
	NameCI    string               `bson:"name_ci" json:"-"`
	JoinCode  string               `bson:"join_code" json:"join_code"`
	MemberIDs []primitive.ObjectID `bson:"member_ids" json:"member_ids"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}
