package domain

import (
	"errors"
	"fmt"
)

// Extraction failure kinds. Each is terminal for a single storm-track
// request and is surfaced naming the storm; none crashes the session.
var (
	ErrTableNotFound          = errors.New("storm data table not found")
	ErrRequiredColumnsMissing = errors.New("required lat/lon columns not found")
	ErrNoValidFixes           = errors.New("no valid track fixes found")

	// ErrNoTrackData marks a catalog entry that has no detail-page locator.
	// Reported at selection time, before any fetch is attempted.
	ErrNoTrackData = errors.New("storm has no track data")
)

// CatalogUnavailableError reports an upstream failure while resolving a
// basin/year catalog. Non-fatal: callers surface it as an empty catalog
// with the triggering error retained for display.
type CatalogUnavailableError struct {
	BasinCode string
	Year      int
	Err       error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("catalog unavailable for %s %d: %v", e.BasinCode, e.Year, e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error { return e.Err }

// TrackUnavailableError reports an upstream failure while fetching one
// storm's detail page.
type TrackUnavailableError struct {
	StormName string
	Err       error
}

func (e *TrackUnavailableError) Error() string {
	return fmt.Sprintf("track unavailable for %s: %v", e.StormName, e.Err)
}

func (e *TrackUnavailableError) Unwrap() error { return e.Err }
