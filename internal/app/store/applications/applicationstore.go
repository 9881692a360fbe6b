// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"errors"
	"time"

	"github.com/alumconnect/alumconnect/internal/app/system/txn"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Store struct {
	db        *mongo.Database
	c         *mongo.Collection
	positions *mongo.Collection
}

var (
	// ErrDuplicateApplication surfaces the partial unique index on
	// (applicant_id, project_id) over live statuses.
	ErrDuplicateApplication = errors.New("a pending or accepted application for this project already exists")

	// ErrInvalidTransition covers every disallowed status move: declining
	// an accepted application, accepting a declined one, withdrawing after
	// review, completing twice, completing a non-accepted application.
	ErrInvalidTransition = errors.New("application is not in a state that allows this action")

	// ErrCapacityExceeded means the position's slots were all filled by
	// the time the accept ran.
	ErrCapacityExceeded = errors.New("position has no open slots")
)

func New(db *mongo.Database) *Store {
	return &Store{
		db:        db,
		c:         db.Collection("applications"),
		positions: db.Collection("positions"),
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var a models.Application
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Application{}, err
	}
	return a, nil
}

// Submit records a new pending application. Eligibility (project open,
// position open with free slots, applicant role) is checked by the
// caller before this runs; the one rule enforced here is uniqueness,
// because only the index can enforce it under concurrency.
func (s *Store) Submit(ctx context.Context, a models.Application) (models.Application, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Status = models.ApplicationPending
	a.IsCompleted = false
	a.CompletedAt = nil
	a.Feedback = ""
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Application{}, ErrDuplicateApplication
		}
		return models.Application{}, err
	}
	return a, nil
}

// Accept moves a pending application to accepted. For a position-scoped
// application the position's filled_count is incremented in the same
// transaction, guarded by filled_count < count, so two owners racing to
// accept into the last slot cannot both win.
//
// Accepting an already-accepted application is a no-op. Accepting a
// declined application is ErrInvalidTransition.
func (s *Store) Accept(ctx context.Context, id primitive.ObjectID) error {
	return txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		var a models.Application
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
			return err
		}
		switch a.Status {
		case models.ApplicationAccepted:
			return nil
		case models.ApplicationDeclined:
			return ErrInvalidTransition
		}

		if a.PositionID != nil {
			res := s.positions.FindOneAndUpdate(ctx,
				bson.M{
					"_id":   *a.PositionID,
					"$expr": bson.M{"$lt": bson.A{"$filled_count", "$count"}},
				},
				bson.M{
					"$inc": bson.M{"filled_count": 1},
					"$set": bson.M{"updated_at": time.Now().UTC()},
				},
			)
			if err := res.Err(); err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					// Position missing or full. Full is the only case the
					// caller can act on, and a deleted position reads the
					// same way to the owner: nobody else fits.
					return ErrCapacityExceeded
				}
				return err
			}
		}

		upd, err := s.c.UpdateOne(ctx,
			bson.M{"_id": id, "status": models.ApplicationPending},
			bson.M{"$set": bson.M{
				"status":     models.ApplicationAccepted,
				"updated_at": time.Now().UTC(),
			}},
		)
		if err == nil && upd.ModifiedCount == 0 {
			// Status changed underneath us inside the window.
			err = ErrInvalidTransition
		}
		if err != nil && a.PositionID != nil {
			// Undo the increment. Inside a real transaction the abort
			// discards both writes and this is a no-op; on a standalone
			// server it is the compensation that keeps the pair consistent.
			_, decErr := s.positions.UpdateOne(ctx,
				bson.M{"_id": *a.PositionID, "filled_count": bson.M{"$gt": 0}},
				bson.M{"$inc": bson.M{"filled_count": -1}},
			)
			if decErr != nil {
				zap.L().Warn("accept compensation failed",
					zap.String("application_id", id.Hex()),
					zap.String("position_id", a.PositionID.Hex()),
					zap.Error(decErr))
			}
		}
		return err
	})
}

// Decline moves a pending application to declined. Declined is
// terminal, so re-declining, like declining an accepted application, is
// ErrInvalidTransition. No counters move, so no transaction is needed.
func (s *Store) Decline(ctx context.Context, id primitive.ObjectID) error {
	upd, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ApplicationPending},
		bson.M{"$set": bson.M{
			"status":     models.ApplicationDeclined,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if upd.ModifiedCount != 0 {
		return nil
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrInvalidTransition
}

// Withdraw deletes a pending application outright. Once the owner has
// reviewed it (accepted or declined) the record is history and stays.
func (s *Store) Withdraw(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "status": models.ApplicationPending})
	if err != nil {
		return err
	}
	if res.DeletedCount != 0 {
		return nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return ErrInvalidTransition
}

// Complete marks an accepted application finished and records feedback.
// It fires exactly once per application; a second call, or a call on an
// application that was never accepted, is ErrInvalidTransition.
func (s *Store) Complete(ctx context.Context, id primitive.ObjectID, feedback string) error {
	now := time.Now().UTC()
	upd, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":          id,
			"status":       models.ApplicationAccepted,
			"is_completed": false,
		},
		bson.M{"$set": bson.M{
			"is_completed": true,
			"completed_at": now,
			"feedback":     feedback,
			"updated_at":   now,
		}},
	)
	if err != nil {
		return err
	}
	if upd.ModifiedCount != 0 {
		return nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return ErrInvalidTransition
}

// CountByProjectStatus is used by owner dashboards for badge totals.
func (s *Store) CountByProjectStatus(ctx context.Context, projectID primitive.ObjectID, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"project_id": projectID, "status": status})
}
