package session

import (
	"errors"
	"net/http"
)

// Domain errors for session operations.
var (
	ErrStaleSession   = errors.New("session was superseded")
	ErrOutfitNotFound = errors.New("no outfit for category")
	ErrOutfitBusy     = errors.New("outfit already has an edit in flight")
	ErrNoImage        = errors.New("no image uploaded")
)

// MapHTTPStatus maps session domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrStaleSession) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrOutfitNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrOutfitBusy) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoImage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
