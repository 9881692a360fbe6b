// internal/app/store/mentorships/mentorshipstore.go
package mentorshipstore

import (
	"context"
	"errors"
	"time"

	"github.com/alumconnect/alumconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateRequest  = errors.New("a pending or accepted request to this mentor already exists")
	ErrInvalidTransition = errors.New("request has already been decided")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mentorship_requests")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.MentorshipRequest, error) {
	var m models.MentorshipRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.MentorshipRequest{}, err
	}
	return m, nil
}

// Request records a student's mentorship request to an alumnus. The
// partial unique index on (student_id, alumni_id) over live statuses
// blocks a second request while one is pending or accepted.
func (s *Store) Request(ctx context.Context, m models.MentorshipRequest) (models.MentorshipRequest, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.Status = models.MentorshipPending
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.MentorshipRequest{}, ErrDuplicateRequest
		}
		return models.MentorshipRequest{}, err
	}
	return m, nil
}

// Decide moves a pending request to accepted or declined. Repeating the
// same decision is a no-op; reversing a decision is ErrInvalidTransition.
func (s *Store) Decide(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != models.MentorshipAccepted && status != models.MentorshipDeclined {
		return ErrInvalidTransition
	}
	upd, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.MentorshipPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if upd.ModifiedCount != 0 {
		return nil
	}
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.Status == status {
		return nil
	}
	return ErrInvalidTransition
}

// ListForAlumni returns the mentor's inbox, newest first.
func (s *Store) ListForAlumni(ctx context.Context, alumniID primitive.ObjectID) ([]models.MentorshipRequest, error) {
	return s.list(ctx, bson.M{"alumni_id": alumniID})
}

// ListForStudent returns the student's outbox, newest first.
func (s *Store) ListForStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.MentorshipRequest, error) {
	return s.list(ctx, bson.M{"student_id": studentID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.MentorshipRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MentorshipRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
