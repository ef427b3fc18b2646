package usecase

import (
	"errors"
	"fmt"
)

// ErrRangeUnavailable means both the aggregate query and the per-day
// fallback failed; nothing was synced for the range.
var ErrRangeUnavailable = errors.New("step range unavailable")

// ErrNoStepData is the distinct "query succeeded, nothing to sync" outcome.
var ErrNoStepData = errors.New("no steps found for provided date range")

// UpstreamError is a >= 400 rejection from the destination while syncing one
// date. It aborts the remaining dates of the batch.
type UpstreamError struct {
	Date       string
	StatusCode int
	Body       map[string]any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("returned status code %d for %s, error_msg_body: %v", e.StatusCode, e.Date, e.Body)
}
