package projects_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alumconnect/alumconnect/internal/app/features/projects"
	"github.com/alumconnect/alumconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

// Projects are retired by status, never removed, so the router must not
// expose a delete method on them.
func TestRoutes_NoProjectDelete(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateAlumnus(ctx, "Olive Owner", "olive@example.com")
	project := fixtures.CreateProject(ctx, "Robotics", owner.ID)

	router := projects.Routes(handler)

	req := httptest.NewRequest("DELETE", "/"+project.ID.Hex(), nil)
	req = testutil.WithUser(req, owner)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE project: expected 405, got %d", rec.Code)
	}

	n, err := fixtures.DB().Collection("projects").CountDocuments(ctx, bson.M{"_id": project.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("project must survive, found %d documents", n)
	}
}
