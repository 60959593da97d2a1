package trip

import (
	"fmt"
	"time"

	"tripledger/internal/pkg/errs"
)

// RouteSegment is one leg of a trip's route plan: the drive from the
// previous stop (or the warehouse origin) to one delivery stop.
type RouteSegment struct {
	// DepartureUnix is the planned departure time as a unix timestamp.
	DepartureUnix int64

	// ArrivalUnix is the planned arrival time as a unix timestamp.
	ArrivalUnix int64

	// RouteText holds the turn-by-turn directions for the leg.
	RouteText string
}

// RoutePlan is the ordered, durable cache of route segments for a trip, one
// per stop in sequence order. A plan is generated at most once per trip and
// replayed verbatim on every later execution attempt, so retried attempts
// always manifest against the same departure and arrival timestamps.
type RoutePlan struct {
	segments []RouteSegment
}

// ErrRoutePlanIsEmpty indicates an attempt to build a plan with no segments.
var ErrRoutePlanIsEmpty = errs.NewValueIsRequiredError("route plan requires at least one segment")

// NewRoutePlan builds a RoutePlan from ordered segments.
func NewRoutePlan(segments []RouteSegment) (RoutePlan, error) {
	if len(segments) == 0 {
		return RoutePlan{}, ErrRoutePlanIsEmpty
	}

	copied := make([]RouteSegment, len(segments))
	copy(copied, segments)
	return RoutePlan{segments: copied}, nil
}

// Segments returns a copy of the ordered segments.
func (p RoutePlan) Segments() []RouteSegment {
	copied := make([]RouteSegment, len(p.segments))
	copy(copied, p.segments)
	return copied
}

// Len returns the number of segments in the plan.
func (p RoutePlan) Len() int {
	return len(p.segments)
}

// SegmentForSequence returns the segment for a stop's 1-based sequence
// position. The second return value is false when the plan holds no segment
// at that position; callers then fall back to a synthetic segment.
func (p RoutePlan) SegmentForSequence(sequence int) (RouteSegment, bool) {
	idx := sequence - 1
	if idx < 0 || idx >= len(p.segments) {
		return RouteSegment{}, false
	}
	return p.segments[idx], true
}

// FallbackSegment builds the synthetic segment used when a stop has no
// planned leg: departure now, arrival in one hour, generic directions.
func FallbackSegment(now time.Time) RouteSegment {
	return RouteSegment{
		DepartureUnix: now.Unix(),
		ArrivalUnix:   now.Add(time.Hour).Unix(),
		RouteText:     fmt.Sprintf("Direct route, departing %s", now.Format("2006-01-02 15:04")),
	}
}
