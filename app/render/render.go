// Package render holds the JSON response helpers shared by the HTTP handlers.
package render

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// JSON writes v with the given status code. The status is already sent when
// encoding fails, so the failure can only be logged.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Invalid writes a 422 listing every problem found in a request body.
func Invalid(w http.ResponseWriter, problems []string) {
	JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":    "Validation failed",
		"problems": problems,
	})
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	return dec.Decode(dst)
}

// Page reads offset and limit query params. Limit is clamped to 1..MaxLimit.
func Page(r *http.Request) (offset, limit int) {
	offset = 0
	limit = DefaultLimit

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > MaxLimit {
				limit = MaxLimit
			} else {
				limit = l
			}
		}
	}
	return offset, limit
}
