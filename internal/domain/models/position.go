// internal/domain/models/position.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Position is a named opening inside a project with a fixed headcount.
//
// FilledCount tracks how many applications are currently accepted against
// the position. It is only ever changed by the application store inside
// the accept transaction, which keeps FilledCount <= Count with a
// conditional update. Treat it as read-only everywhere
// else.
type Position struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	ProjectID      primitive.ObjectID `bson:"project_id" json:"project_id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	RequiredSkills []string           `bson:"required_skills,omitempty" json:"required_skills,omitempty"`
	Count          int                `bson:"count" json:"count"`
	FilledCount    int                `bson:"filled_count" json:"filled_count"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// OpenSlots reports how many more applications can be accepted.
func (p Position) OpenSlots() int {
	if n := p.Count - p.FilledCount; n > 0 {
		return n
	}
	return 0
}
