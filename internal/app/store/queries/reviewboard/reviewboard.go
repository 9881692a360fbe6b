// internal/app/store/queries/reviewboard/reviewboard.go
//
// Read model for the owner's application review screen: every
// application for one project, filtered, partitioned into pending and
// processed, with pending grouped under the position applied for.
package reviewboard

import (
	"context"

	"github.com/alumconnect/alumconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter values for the team/individual toggle.
const (
	FilterAll        = "all"
	FilterTeam       = "team"
	FilterIndividual = "individual"
)

// GeneralTitle labels the bucket for applications not tied to any
// position.
const GeneralTitle = "General Application"

// Applicant is the slice of the user document the review screen shows.
type Applicant struct {
	ID             primitive.ObjectID `json:"id"`
	FullName       string             `json:"full_name"`
	Email          string             `json:"email"`
	GraduationYear int                `json:"graduation_year,omitempty"`
	Department     string             `json:"department,omitempty"`
}

// Item is one application joined with its applicant and, when
// position-scoped, the position title.
type Item struct {
	Application   models.Application `json:"application"`
	Applicant     Applicant          `json:"applicant"`
	PositionTitle string             `json:"position_title,omitempty"`
}

// Group is the pending applications for one position, or the general
// bucket when PositionID is nil.
type Group struct {
	PositionID *primitive.ObjectID `json:"position_id,omitempty"`
	Title      string              `json:"title"`
	Items      []Item              `json:"items"`
}

// Board is the assembled review screen.
//
// The team/individual filter is applied before anything is counted or
// partitioned, so the badge counts always describe what is on screen.
type Board struct {
	Filter         string  `json:"filter"`
	PendingCount   int     `json:"pending_count"`
	ProcessedCount int     `json:"processed_count"`
	Pending        []Group `json:"pending"`
	Processed      []Item  `json:"processed"`
}

// Build assembles the board for one project. Applications come back
// oldest first in both partitions, first come first reviewed. Pending
// groups follow position creation order, with the general bucket last.
func Build(ctx context.Context, db *mongo.Database, projectID primitive.ObjectID, filter string) (Board, error) {
	match := bson.M{"project_id": projectID}
	switch filter {
	case FilterTeam:
		match["has_team"] = true
	case FilterIndividual:
		match["has_team"] = false
	default:
		filter = FilterAll
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := db.Collection("applications").Find(ctx, match, opts)
	if err != nil {
		return Board{}, err
	}
	defer cur.Close(ctx)

	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return Board{}, err
	}

	users, err := loadUsers(ctx, db, apps)
	if err != nil {
		return Board{}, err
	}
	positions, err := loadPositions(ctx, db, projectID)
	if err != nil {
		return Board{}, err
	}

	b := Board{Filter: filter, Pending: []Group{}, Processed: []Item{}}

	// Seed one group per position in creation order, plus the general
	// bucket last. Groups that end up empty are dropped.
	groups := make(map[string]*Group, len(positions)+1)
	order := make([]string, 0, len(positions)+1)
	for _, p := range positions {
		p := p
		key := p.ID.Hex()
		groups[key] = &Group{PositionID: &p.ID, Title: p.Title}
		order = append(order, key)
	}
	const generalKey = ""
	groups[generalKey] = &Group{Title: GeneralTitle}
	order = append(order, generalKey)

	titleOf := func(id *primitive.ObjectID) string {
		if id == nil {
			return GeneralTitle
		}
		if g, ok := groups[id.Hex()]; ok {
			return g.Title
		}
		return GeneralTitle
	}

	for _, a := range apps {
		item := Item{
			Application:   a,
			Applicant:     users[a.ApplicantID],
			PositionTitle: "",
		}
		if a.PositionID != nil {
			item.PositionTitle = titleOf(a.PositionID)
		}
		if a.Processed() {
			b.Processed = append(b.Processed, item)
			b.ProcessedCount++
			continue
		}
		key := generalKey
		if a.PositionID != nil {
			if _, ok := groups[a.PositionID.Hex()]; ok {
				key = a.PositionID.Hex()
			}
		}
		g := groups[key]
		g.Items = append(g.Items, item)
		b.PendingCount++
	}

	for _, key := range order {
		if g := groups[key]; len(g.Items) > 0 {
			b.Pending = append(b.Pending, *g)
		}
	}
	return b, nil
}

func loadUsers(ctx context.Context, db *mongo.Database, apps []models.Application) (map[primitive.ObjectID]Applicant, error) {
	out := map[primitive.ObjectID]Applicant{}
	if len(apps) == 0 {
		return out, nil
	}
	seen := map[primitive.ObjectID]bool{}
	ids := make([]primitive.ObjectID, 0, len(apps))
	for _, a := range apps {
		if !seen[a.ApplicantID] {
			seen[a.ApplicantID] = true
			ids = append(ids, a.ApplicantID)
		}
	}
	cur, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = Applicant{
			ID:             u.ID,
			FullName:       u.FullName,
			Email:          u.Email,
			GraduationYear: u.GraduationYear,
			Department:     u.Department,
		}
	}
	return out, cur.Err()
}

func loadPositions(ctx context.Context, db *mongo.Database, projectID primitive.ObjectID) ([]models.Position, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := db.Collection("positions").Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Position
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
