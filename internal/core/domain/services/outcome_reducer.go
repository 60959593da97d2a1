package services

// StopOutcome is the terminal result of processing one stop in an attempt.
type StopOutcome int

const (
	// OutcomeSuccess means the stop's manifest was filed.
	OutcomeSuccess StopOutcome = iota + 1

	// OutcomeSkipped means the stop had no ledger-addressable units.
	// Informational only; never tallied as success or failure.
	OutcomeSkipped

	// OutcomeFailed means a saga step was rejected by the ledger.
	OutcomeFailed

	// OutcomeCritical means the stop could not even be evaluated
	// (order-detail lookup failed). Any critical outcome escalates the
	// whole attempt to a fatal failure.
	OutcomeCritical
)

// TripVerdict is the trip-level outcome reduced from all stops of one
// attempt.
type TripVerdict int

const (
	// VerdictCompleted: every tallied stop succeeded.
	VerdictCompleted TripVerdict = iota + 1

	// VerdictPartiallyCompleted: successes and failures were mixed.
	VerdictPartiallyCompleted

	// VerdictFailed: at least one failure and no success.
	VerdictFailed

	// VerdictCritical: at least one stop could not be evaluated; the
	// attempt is fatal and the business status must not change.
	VerdictCritical
)

// StopResult pairs an outcome with its message for reduction.
type StopResult struct {
	OrderRef string
	Outcome  StopOutcome
	Message  string
}

// Reduction is the aggregate view of one attempt.
type Reduction struct {
	Verdict TripVerdict

	Succeeded int
	Failed    int
	Skipped   int

	// CriticalMessages carries the order-lookup failures that made the
	// attempt critical; attached to the execution record's general error.
	CriticalMessages []string
}

// TripOutcomeReducer is a domain service that folds all stops' terminal
// outcomes into one trip-level verdict.
//
// Rules, evaluated in order:
//  1. any critical outcome  -> VerdictCritical
//  2. successes and failures -> VerdictPartiallyCompleted
//  3. failures only          -> VerdictFailed
//  4. otherwise              -> VerdictCompleted
//
// Skipped outcomes never appear in the tallies; an all-skipped attempt
// reduces to VerdictCompleted.
type TripOutcomeReducer struct{}

// NewTripOutcomeReducer creates a new TripOutcomeReducer instance.
func NewTripOutcomeReducer() TripOutcomeReducer {
	return TripOutcomeReducer{}
}

// Reduce folds the attempt's stop results into a Reduction.
func (TripOutcomeReducer) Reduce(results []StopResult) Reduction {
	var r Reduction

	for _, res := range results {
		switch res.Outcome {
		case OutcomeSuccess:
			r.Succeeded++
		case OutcomeFailed:
			r.Failed++
		case OutcomeSkipped:
			r.Skipped++
		case OutcomeCritical:
			r.CriticalMessages = append(r.CriticalMessages, res.Message)
		}
	}

	switch {
	case len(r.CriticalMessages) > 0:
		r.Verdict = VerdictCritical
	case r.Succeeded > 0 && r.Failed > 0:
		r.Verdict = VerdictPartiallyCompleted
	case r.Failed > 0:
		r.Verdict = VerdictFailed
	default:
		r.Verdict = VerdictCompleted
	}

	return r
}
