// internal/app/store/positions/positionstore.go
package positionstore

import (
	"context"
	"errors"
	"time"

	"github.com/alumconnect/alumconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrCountBelowFilled is returned when an edit would shrink a position's
// headcount below the number of slots already filled.
var ErrCountBelowFilled = errors.New("position count cannot drop below filled slots")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("positions")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Position, error) {
	var p models.Position
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Position{}, err
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p models.Position) (models.Position, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.FilledCount = 0
	if p.Count < 1 {
		p.Count = 1
	}
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Position{}, err
	}
	return p, nil
}

// UpdateInfo edits a position. The count change is conditional on the
// new count still covering what has already been filled, so an edit can
// never make filled_count exceed count.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, title, desc string, skills []string, count int, active bool) error {
	filter := bson.M{
		"_id":          id,
		"filled_count": bson.M{"$lte": count},
	}
	set := bson.M{
		"title":       title,
		"description": desc,
		"count":       count,
		"is_active":   active,
		"updated_at":  time.Now().UTC(),
	}
	if skills != nil {
		set["required_skills"] = skills
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the position is gone or the count guard rejected it.
		n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if cerr != nil {
			return cerr
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
		return ErrCountBelowFilled
	}
	return nil
}

// ListByProject returns the project's positions in creation order, the
// order the review board groups by.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Position, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
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

// GetMany fetches positions by ID for join-style lookups.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Position, error) {
	out := make(map[primitive.ObjectID]models.Position, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var p models.Position
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cur.Err()
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
