package httpjson_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"github.com/alumconnect/alumconnect/internal/app/system/httpjson"
	"go.uber.org/zap"
)

func TestDecode(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()

	var body struct {
		Message string `json:"message"`
	}
	if err := httpjson.Decode(rec, req, &body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if body.Message != "hi" {
		t.Errorf("Message: got %q", body.Message)
	}
}

func TestDecode_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	var body map[string]any
	err := httpjson.Decode(rec, req, &body)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestError_Taxonomy(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Error(rec, zap.NewNop(), apperr.New(apperr.CodeCapacityExceeded, "position is already filled"))

	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusConflict)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] != "position is already filled" {
		t.Errorf("error message: got %q", body["error"])
	}
}

func TestError_Unexpected(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Error(rec, zap.NewNop(), errors.New("pq: connection refused"))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if strings.Contains(body["error"], "connection refused") {
		t.Errorf("internal error leaked to caller: %q", body["error"])
	}
}
