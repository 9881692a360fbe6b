// internal/app/store/queries/studentapps/studentapps.go
//
// Read model for a student's "my applications" page: each application
// joined with its project title and, when position-scoped, the
// position title.
package studentapps

import (
	"context"

	"github.com/alumconnect/alumconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Entry struct {
	Application   models.Application `json:"application"`
	ProjectTitle  string             `json:"project_title"`
	ProjectStatus string             `json:"project_status"`
	PositionTitle string             `json:"position_title,omitempty"`
}

// List returns the student's applications, newest first.
func List(ctx context.Context, db *mongo.Database, applicantID primitive.ObjectID) ([]Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := db.Collection("applications").Find(ctx, bson.M{"applicant_id": applicantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return []Entry{}, nil
	}

	projIDs := make([]primitive.ObjectID, 0, len(apps))
	posIDs := make([]primitive.ObjectID, 0, len(apps))
	seenProj := map[primitive.ObjectID]bool{}
	seenPos := map[primitive.ObjectID]bool{}
	for _, a := range apps {
		if !seenProj[a.ProjectID] {
			seenProj[a.ProjectID] = true
			projIDs = append(projIDs, a.ProjectID)
		}
		if a.PositionID != nil && !seenPos[*a.PositionID] {
			seenPos[*a.PositionID] = true
			posIDs = append(posIDs, *a.PositionID)
		}
	}

	projects := map[primitive.ObjectID]models.Project{}
	pcur, err := db.Collection("projects").Find(ctx, bson.M{"_id": bson.M{"$in": projIDs}})
	if err != nil {
		return nil, err
	}
	for pcur.Next(ctx) {
		var p models.Project
		if err := pcur.Decode(&p); err != nil {
			pcur.Close(ctx)
			return nil, err
		}
		projects[p.ID] = p
	}
	pcur.Close(ctx)

	positions := map[primitive.ObjectID]models.Position{}
	if len(posIDs) > 0 {
		scur, err := db.Collection("positions").Find(ctx, bson.M{"_id": bson.M{"$in": posIDs}})
		if err != nil {
			return nil, err
		}
		for scur.Next(ctx) {
			var p models.Position
			if err := scur.Decode(&p); err != nil {
				scur.Close(ctx)
				return nil, err
			}
			positions[p.ID] = p
		}
		scur.Close(ctx)
	}

	out := make([]Entry, 0, len(apps))
	for _, a := range apps {
		e := Entry{Application: a}
		if p, ok := projects[a.ProjectID]; ok {
			e.ProjectTitle = p.Title
			e.ProjectStatus = p.Status
		}
		if a.PositionID != nil {
			if p, ok := positions[*a.PositionID]; ok {
				e.PositionTitle = p.Title
			}
		}
		out = append(out, e)
	}
	return out, nil
}
