package chart

import (
	"errors"
	"fmt"

	httpClient "github.com/stockpeek/chartsync/internal/platform/http"
	"github.com/stockpeek/chartsync/internal/model"
)

// Outcome classifies a fetch completion. Every completion path yields exactly
// one of these; no exception-style control flow crosses component boundaries.
type Outcome int

const (
	Accepted Outcome = iota
	Stale
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Stale:
		return "stale"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchError describes a failed fetch for one (scope, purpose). Status is the
// HTTP status code when the failure was a non-2xx response, zero otherwise.
type FetchError struct {
	Purpose Purpose
	Scope   model.Scope
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s fetch for %s failed with status %d", e.Purpose, e.Scope, e.Status)
	}
	return fmt.Sprintf("%s fetch for %s failed: %v", e.Purpose, e.Scope, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// newFetchError extracts the HTTP status from the cause when one is present.
func newFetchError(purpose Purpose, scope model.Scope, err error) *FetchError {
	fe := &FetchError{Purpose: purpose, Scope: scope, Err: err}
	var statusErr *httpClient.HTTPStatusError
	if errors.As(err, &statusErr) {
		fe.Status = statusErr.StatusCode
	}
	return fe
}
