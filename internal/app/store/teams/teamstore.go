// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alumconnect/alumconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateJoinCode = errors.New("join code collision, retry")
	ErrAlreadyMember     = errors.New("user is already a member of this team")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// newJoinCode derives a short shareable code from a UUID. Eight hex
// characters is enough at this scale; the unique index catches the
// rare collision and Create retries once.
func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *Store) Create(ctx context.Context, name string, creator primitive.ObjectID) (models.Team, error) {
	now := time.Now().UTC()
	t := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		MemberIDs: []primitive.ObjectID{creator},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for attempt := 0; attempt < 2; attempt++ {
		t.JoinCode = newJoinCode()
		_, err := s.c.InsertOne(ctx, t)
		if err == nil {
			return t, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Team{}, err
		}
	}
	return models.Team{}, ErrDuplicateJoinCode
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

func (s *Store) GetByJoinCode(ctx context.Context, code string) (models.Team, error) {
	var t models.Team
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := s.c.FindOne(ctx, bson.M{"join_code": code}).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// Join adds the user to the team identified by a join code. $addToSet
// keeps the operation idempotent; ModifiedCount distinguishes a fresh
// join from a repeat.
func (s *Store) Join(ctx context.Context, code string, userID primitive.ObjectID) (models.Team, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	res, err := s.c.UpdateOne(ctx,
		bson.M{"join_code": code},
		bson.M{
			"$addToSet": bson.M{"member_ids": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return models.Team{}, err
	}
	if res.MatchedCount == 0 {
		return models.Team{}, mongo.ErrNoDocuments
	}
	t, err := s.GetByJoinCode(ctx, code)
	if err != nil {
		return models.Team{}, err
	}
	if res.ModifiedCount == 0 {
		return t, ErrAlreadyMember
	}
	return t, nil
}

// Leave removes the user and deletes the team when it empties out.
func (s *Store) Leave(ctx context.Context, teamID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": teamID},
		bson.M{
			"$pull": bson.M{"member_ids": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	_, err = s.c.DeleteOne(ctx, bson.M{"_id": teamID, "member_ids": bson.M{"$size": 0}})
	return err
}

// HasTeam reports whether the user currently belongs to any team. The
// result is snapshotted onto applications at submit time.
func (s *Store) HasTeam(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"member_ids": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TeamOf returns the team the user belongs to, or mongo.ErrNoDocuments.
func (s *Store) TeamOf(ctx context.Context, userID primitive.ObjectID) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"member_ids": userID}).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}
