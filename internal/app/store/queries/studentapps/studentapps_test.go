package studentapps_test

import (
	"testing"
	"time"

	"github.com/alumconnect/alumconnect/internal/app/store/queries/studentapps"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"github.com/alumconnect/alumconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestList_JoinsTitlesNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	p1 := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	p2 := fixtures.CreateProjectWithStatus(ctx, "Archive Digitizer", owner.ID, models.ProjectPaused)
	pos := fixtures.CreatePosition(ctx, p1.ID, "Developer", 1)

	older := fixtures.CreateApplication(ctx, student.ID, p1.ID, &pos.ID, models.ApplicationPending)
	newer := fixtures.CreateApplication(ctx, student.ID, p2.ID, nil, models.ApplicationDeclined)

	base := time.Now().UTC().Add(-time.Hour)
	if _, err := db.Collection("applications").UpdateByID(ctx, older.ID,
		bson.M{"$set": bson.M{"created_at": base}}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := db.Collection("applications").UpdateByID(ctx, newer.ID,
		bson.M{"$set": bson.M{"created_at": base.Add(time.Minute)}}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	list, err := studentapps.List(ctx, db, student.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d entries, want 2", len(list))
	}

	if list[0].ProjectTitle != "Archive Digitizer" {
		t.Errorf("first entry should be newest, got %q", list[0].ProjectTitle)
	}
	if list[0].ProjectStatus != models.ProjectPaused {
		t.Errorf("project status: got %q, want paused", list[0].ProjectStatus)
	}
	if list[0].PositionTitle != "" {
		t.Errorf("general application should have no position title, got %q", list[0].PositionTitle)
	}
	if list[1].PositionTitle != "Developer" {
		t.Errorf("position title: got %q, want Developer", list[1].PositionTitle)
	}
}

func TestList_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")

	list, err := studentapps.List(ctx, db, student.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("got %d entries, want 0", len(list))
	}
}
