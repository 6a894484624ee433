// Package usage defines the capability interface for external usage
// measurement. The evaluator depends only on this narrow query contract, so
// it stays testable without real OS hooks.
package usage

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when no measurement can be produced for the
// requested window. The caller defers the evaluation; unavailability is
// never a pass or a fail.
var ErrUnavailable = errors.New("usage data unavailable")

// Source provides observed usage minutes for a target within [start, end)
type Source interface {
	Usage(ctx context.Context, target string, start, end time.Time) (float64, error)
}
