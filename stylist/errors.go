package stylist

import (
	"errors"
	"net/http"
)

// Every client failure wraps exactly one of the first three sentinels.
var (
	ErrAnalysisFailed   = errors.New("style analysis failed")
	ErrGenerationFailed = errors.New("outfit generation failed")
	ErrEditFailed       = errors.New("outfit edit failed")

	ErrNoImage           = errors.New("response contained no image")
	ErrMalformedAnalysis = errors.New("analysis response does not match schema")
)

// MapHTTPStatus maps client failures to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrAnalysisFailed) || errors.Is(err, ErrGenerationFailed) || errors.Is(err, ErrEditFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
