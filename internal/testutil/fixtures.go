// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alumconnect/alumconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) createUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      text.Fold(email),
		Role:       role,
		Status:     models.UserActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateStudent creates a test student account.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, models.RoleStudent)
}

// CreateAlumnus creates a test alumni account.
func (f *Fixtures) CreateAlumnus(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, models.RoleAlumni)
}

// CreateProject creates an active test project owned by the given user.
func (f *Fixtures) CreateProject(ctx context.Context, title string, ownerID primitive.ObjectID) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: "A test project",
		Category:    "software",
		Status:      models.ProjectActive,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateProjectWithStatus creates a test project in the given status.
func (f *Fixtures) CreateProjectWithStatus(ctx context.Context, title string, ownerID primitive.ObjectID, status string) models.Project {
	f.t.Helper()

	p := f.CreateProject(ctx, title, ownerID)
	if _, err := f.db.Collection("projects").UpdateByID(ctx, p.ID,
		map[string]any{"$set": map[string]any{"status": status}}); err != nil {
		f.t.Fatalf("failed to set project status: %v", err)
	}
	p.Status = status
	return p
}

// CreatePosition creates an open test position with the given headcount.
func (f *Fixtures) CreatePosition(ctx context.Context, projectID primitive.ObjectID, title string, count int) models.Position {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Position{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Title:     title,
		Count:     count,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("positions").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test position: %v", err)
	}
	return p
}

// CreateApplication inserts an application directly, bypassing the
// eligibility gate, for tests that need a specific starting state.
// positionID may be nil for a general application.
func (f *Fixtures) CreateApplication(ctx context.Context, applicantID, projectID primitive.ObjectID, positionID *primitive.ObjectID, status string) models.Application {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Application{
		ID:          primitive.NewObjectID(),
		ApplicantID: applicantID,
		ProjectID:   projectID,
		PositionID:  positionID,
		Message:     "test application",
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("applications").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return a
}

// CreateTeam creates a test team with the given members.
func (f *Fixtures) CreateTeam(ctx context.Context, name string, memberIDs ...primitive.ObjectID) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	t := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		JoinCode:  primitive.NewObjectID().Hex()[:8],
		MemberIDs: memberIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, t); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	return t
}
