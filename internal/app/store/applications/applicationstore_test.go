package applicationstore_test

import (
	"errors"
	"sync"
	"testing"

	applicationstore "github.com/alumconnect/alumconnect/internal/app/store/applications"
	"github.com/alumconnect/alumconnect/internal/domain/models"
	"github.com/alumconnect/alumconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Submit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)

	a, err := store.Submit(ctx, models.Application{
		ApplicantID: student.ID,
		ProjectID:   project.ID,
		Message:     "I would like to help",
		HasTeam:     true,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if a.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if a.Status != models.ApplicationPending {
		t.Errorf("status: got %q, want %q", a.Status, models.ApplicationPending)
	}
	if !a.HasTeam {
		t.Error("expected HasTeam snapshot to survive")
	}
	if a.IsCompleted || a.CompletedAt != nil {
		t.Error("new applications must not carry completion state")
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Submit_DuplicateWhilePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)

	if _, err := store.Submit(ctx, models.Application{ApplicantID: student.ID, ProjectID: project.ID}); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	_, err := store.Submit(ctx, models.Application{ApplicantID: student.ID, ProjectID: project.ID})
	if !errors.Is(err, applicationstore.ErrDuplicateApplication) {
		t.Errorf("expected ErrDuplicateApplication, got %v", err)
	}
}

func TestStore_Submit_DuplicateWhileAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	fixtures.CreateApplication(ctx, student.ID, project.ID, nil, models.ApplicationAccepted)

	_, err := store.Submit(ctx, models.Application{ApplicantID: student.ID, ProjectID: project.ID})
	if !errors.Is(err, applicationstore.ErrDuplicateApplication) {
		t.Errorf("expected ErrDuplicateApplication, got %v", err)
	}
}

func TestStore_Submit_AllowedAfterDecline(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	fixtures.CreateApplication(ctx, student.ID, project.ID, nil, models.ApplicationDeclined)

	if _, err := store.Submit(ctx, models.Application{ApplicantID: student.ID, ProjectID: project.ID}); err != nil {
		t.Errorf("expected re-apply after decline to succeed, got %v", err)
	}
}

func TestStore_Submit_AllowedAfterWithdraw(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)

	a, err := store.Submit(ctx, models.Application{ApplicantID: student.ID, ProjectID: project.ID})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := store.Withdraw(ctx, a.ID); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if _, err := store.Submit(ctx, models.Application{ApplicantID: student.ID, ProjectID: project.ID}); err != nil {
		t.Errorf("expected re-apply after withdraw to succeed, got %v", err)
	}
}

func TestStore_Accept_IncrementsFilledCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	pos := fixtures.CreatePosition(ctx, project.ID, "Developer", 2)
	a := fixtures.CreateApplication(ctx, student.ID, project.ID, &pos.ID, models.ApplicationPending)

	if err := store.Accept(ctx, a.ID); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ApplicationAccepted {
		t.Errorf("status: got %q, want %q", got.Status, models.ApplicationAccepted)
	}

	var p models.Position
	if err := db.Collection("positions").FindOne(ctx, bson.M{"_id": pos.ID}).Decode(&p); err != nil {
		t.Fatalf("position lookup failed: %v", err)
	}
	if p.FilledCount != 1 {
		t.Errorf("filled_count: got %d, want 1", p.FilledCount)
	}
}

func TestStore_Accept_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	pos := fixtures.CreatePosition(ctx, project.ID, "Developer", 1)
	a := fixtures.CreateApplication(ctx, student.ID, project.ID, &pos.ID, models.ApplicationPending)

	if err := store.Accept(ctx, a.ID); err != nil {
		t.Fatalf("first Accept failed: %v", err)
	}
	if err := store.Accept(ctx, a.ID); err != nil {
		t.Fatalf("second Accept should be a no-op, got %v", err)
	}

	// The no-op must not consume another slot.
	var p models.Position
	if err := db.Collection("positions").FindOne(ctx, bson.M{"_id": pos.ID}).Decode(&p); err != nil {
		t.Fatalf("position lookup failed: %v", err)
	}
	if p.FilledCount != 1 {
		t.Errorf("filled_count after repeat accept: got %d, want 1", p.FilledCount)
	}
}

func TestStore_Accept_DeclinedIsInvalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	a := fixtures.CreateApplication(ctx, student.ID, project.ID, nil, models.ApplicationDeclined)

	if err := store.Accept(ctx, a.ID); !errors.Is(err, applicationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStore_Accept_CapacityExceeded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	s1 := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	s2 := fixtures.CreateStudent(ctx, "Riley Student", "riley@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	pos := fixtures.CreatePosition(ctx, project.ID, "Developer", 1)

	a1 := fixtures.CreateApplication(ctx, s1.ID, project.ID, &pos.ID, models.ApplicationPending)
	a2 := fixtures.CreateApplication(ctx, s2.ID, project.ID, &pos.ID, models.ApplicationPending)

	if err := store.Accept(ctx, a1.ID); err != nil {
		t.Fatalf("first Accept failed: %v", err)
	}
	if err := store.Accept(ctx, a2.ID); !errors.Is(err, applicationstore.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}

	// The losing accept must leave the application pending.
	got, err := store.GetByID(ctx, a2.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ApplicationPending {
		t.Errorf("loser status: got %q, want %q", got.Status, models.ApplicationPending)
	}
}

func TestStore_Accept_GeneralApplicationSkipsCounter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	pos := fixtures.CreatePosition(ctx, project.ID, "Developer", 1)
	a := fixtures.CreateApplication(ctx, student.ID, project.ID, nil, models.ApplicationPending)

	if err := store.Accept(ctx, a.ID); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	var p models.Position
	if err := db.Collection("positions").FindOne(ctx, bson.M{"_id": pos.ID}).Decode(&p); err != nil {
		t.Fatalf("position lookup failed: %v", err)
	}
	if p.FilledCount != 0 {
		t.Errorf("general accept must not touch positions, filled_count = %d", p.FilledCount)
	}
}

func TestStore_Decline(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	a := fixtures.CreateApplication(ctx, student.ID, project.ID, nil, models.ApplicationPending)

	if err := store.Decline(ctx, a.ID); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	// Declined is terminal, so a repeat decline fails.
	if err := store.Decline(ctx, a.ID); !errors.Is(err, applicationstore.ErrInvalidTransition) {
		t.Errorf("repeat Decline: got %v, want ErrInvalidTransition", err)
	}
}

func TestStore_Decline_AcceptedIsInvalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	a := fixtures.CreateApplication(ctx, student.ID, project.ID, nil, models.ApplicationAccepted)

	if err := store.Decline(ctx, a.ID); !errors.Is(err, applicationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStore_Withdraw_OnlyPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)

	pending := fixtures.CreateApplication(ctx, student.ID, project.ID, nil, models.ApplicationPending)
	if err := store.Withdraw(ctx, pending.ID); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if _, err := store.GetByID(ctx, pending.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected withdrawn application to be deleted, got %v", err)
	}

	accepted := fixtures.CreateApplication(ctx, student.ID, project.ID, nil, models.ApplicationAccepted)
	if err := store.Withdraw(ctx, accepted.ID); !errors.Is(err, applicationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for accepted withdraw, got %v", err)
	}

	if err := store.Withdraw(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for missing application, got %v", err)
	}
}

func TestStore_Complete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	a := fixtures.CreateApplication(ctx, student.ID, project.ID, nil, models.ApplicationAccepted)

	if err := store.Complete(ctx, a.ID, "great work all semester"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsCompleted {
		t.Error("expected IsCompleted")
	}
	if got.CompletedAt == nil || got.CompletedAt.IsZero() {
		t.Error("expected CompletedAt to be set")
	}
	if got.Feedback != "great work all semester" {
		t.Errorf("feedback: got %q", got.Feedback)
	}
	if got.Status != models.ApplicationAccepted {
		t.Errorf("completion must not change status, got %q", got.Status)
	}

	// Completing twice is rejected, and the original feedback survives.
	if err := store.Complete(ctx, a.ID, "second try"); !errors.Is(err, applicationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on second Complete, got %v", err)
	}
	got, err = store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Feedback != "great work all semester" {
		t.Errorf("repeat Complete must not overwrite feedback, got %q", got.Feedback)
	}
}

func TestStore_Complete_RequiresAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)

	for _, status := range []string{models.ApplicationPending, models.ApplicationDeclined} {
		a := fixtures.CreateApplication(ctx, student.ID, project.ID, nil, status)
		if err := store.Complete(ctx, a.ID, "nope"); !errors.Is(err, applicationstore.ErrInvalidTransition) {
			t.Errorf("status %q: expected ErrInvalidTransition, got %v", status, err)
		}
		// Clean up so the partial unique index allows the next insert.
		if _, err := db.Collection("applications").DeleteOne(ctx, bson.M{"_id": a.ID}); err != nil {
			t.Fatalf("cleanup failed: %v", err)
		}
	}
}

// Two simultaneous submits for the same project resolve to one stored
// application; the unique index, not any pre-check, decides the race.
func TestStore_Submit_ConcurrentDoubleSubmit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	student := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Submit(ctx, models.Application{
				ApplicantID: student.ID,
				ProjectID:   project.ID,
				Message:     "pick me",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, applicationstore.ErrDuplicateApplication):
			dup++
		default:
			t.Fatalf("unexpected Submit error: %v", err)
		}
	}
	if ok != 1 || dup != 1 {
		t.Errorf("got %d successes and %d duplicates, want 1 and 1", ok, dup)
	}

	n, err := db.Collection("applications").CountDocuments(ctx, bson.M{
		"applicant_id": student.ID,
		"project_id":   project.ID,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 stored application, got %d", n)
	}
}

// Two owners' accepts racing for a position's last slot: one wins, the
// loser stays pending and the counter never overshoots.
func TestStore_Accept_ConcurrentLastSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	s1 := fixtures.CreateStudent(ctx, "Sam Student", "sam@example.com")
	s2 := fixtures.CreateStudent(ctx, "Tess Student", "tess@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)
	pos := fixtures.CreatePosition(ctx, project.ID, "Developer", 1)

	a1 := fixtures.CreateApplication(ctx, s1.ID, project.ID, &pos.ID, models.ApplicationPending)
	a2 := fixtures.CreateApplication(ctx, s2.ID, project.ID, &pos.ID, models.ApplicationPending)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []primitive.ObjectID{a1.ID, a2.ID} {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			errs <- store.Accept(ctx, id)
		}(id)
	}
	wg.Wait()
	close(errs)

	var ok, full int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, applicationstore.ErrCapacityExceeded):
			full++
		default:
			t.Fatalf("unexpected Accept error: %v", err)
		}
	}
	if ok != 1 || full != 1 {
		t.Errorf("got %d accepts and %d capacity rejections, want 1 and 1", ok, full)
	}

	var p models.Position
	if err := db.Collection("positions").FindOne(ctx, bson.M{"_id": pos.ID}).Decode(&p); err != nil {
		t.Fatalf("load position failed: %v", err)
	}
	if p.FilledCount != 1 {
		t.Errorf("filled_count: got %d, want 1", p.FilledCount)
	}

	accepted, err := db.Collection("applications").CountDocuments(ctx, bson.M{
		"position_id": pos.ID,
		"status":      models.ApplicationAccepted,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if accepted != 1 {
		t.Errorf("expected exactly 1 accepted application, got %d", accepted)
	}
	pending, err := db.Collection("applications").CountDocuments(ctx, bson.M{
		"position_id": pos.ID,
		"status":      models.ApplicationPending,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if pending != 1 {
		t.Errorf("the loser must stay pending, got %d pending", pending)
	}
}
