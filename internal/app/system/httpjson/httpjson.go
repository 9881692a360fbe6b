// internal/app/system/httpjson/httpjson.go

// Package httpjson holds the JSON request/response conventions shared by
// every feature handler: body decoding with a size cap, response
// encoding, and the single place where taxonomy errors become HTTP
// statuses.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alumconnect/alumconnect/internal/app/system/apperr"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies. Application messages and feedback
// are short free text; 1 MiB is generous.
const maxBodyBytes = 1 << 20

// Decode reads a JSON body into v. Failures are validation errors the
// caller can surface as-is.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apperr.New(apperr.CodeValidation, "request body must be valid JSON")
	}
	return nil
}

// Write encodes v as the response with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error renders err in the standard {"error": "..."} shape. Taxonomy
// errors keep their message and status; anything else is logged and
// reported as a generic unavailable so driver internals never leak to
// callers.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	message := apperr.MessageFor(err)

	var e *apperr.Error
	isTaxonomy := errors.As(err, &e)
	if !isTaxonomy || e.Code == apperr.CodeUnavailable {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		message = "service temporarily unavailable, please retry"
	}

	Write(w, status, map[string]string{"error": message})
}
