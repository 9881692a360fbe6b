package positionstore_test

import (
	"errors"
	"testing"

	positionstore "github.com/alumconnect/alumconnect/internal/app/store/positions"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"github.com/alumconnect/alumconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := positionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)

	p, err := store.Create(ctx, models.Position{
		ProjectID: project.ID,
		Title:     "Developer",
		Count:     3,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !p.IsActive {
		t.Error("new positions start active")
	}
	if p.FilledCount != 0 {
		t.Errorf("filled_count: got %d, want 0", p.FilledCount)
	}
	if p.OpenSlots() != 3 {
		t.Errorf("open slots: got %d, want 3", p.OpenSlots())
	}
}

func TestStore_UpdateInfo_CountGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := positionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	pos := fixtures.CreatePosition(ctx, project.ID, "Developer", 3)

	// Simulate two filled slots.
	if _, err := db.Collection("positions").UpdateByID(ctx, pos.ID,
		bson.M{"$set": bson.M{"filled_count": 2}}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	// Shrinking to 1 would strand a filled slot.
	err := store.UpdateInfo(ctx, pos.ID, "Developer", "", nil, 1, true)
	if !errors.Is(err, positionstore.ErrCountBelowFilled) {
		t.Errorf("expected ErrCountBelowFilled, got %v", err)
	}

	// Shrinking to exactly the filled count is allowed.
	if err := store.UpdateInfo(ctx, pos.ID, "Developer", "", nil, 2, true); err != nil {
		t.Errorf("shrink to filled count should succeed, got %v", err)
	}

	got, err := store.GetByID(ctx, pos.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Count != 2 || got.OpenSlots() != 0 {
		t.Errorf("after shrink: count=%d open=%d, want 2/0", got.Count, got.OpenSlots())
	}
}

func TestStore_UpdateInfo_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := positionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.UpdateInfo(ctx, primitive.NewObjectID(), "Ghost", "", nil, 1, true)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_ListByProject_CreationOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := positionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)

	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := store.Create(ctx, models.Position{ProjectID: project.ID, Title: title, Count: 1}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := store.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d positions, want 3", len(list))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if list[i].Title != want {
			t.Errorf("position %d: got %q, want %q", i, list[i].Title, want)
		}
	}
}
