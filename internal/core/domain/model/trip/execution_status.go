package trip

import (
	"fmt"

	"tripledger/internal/pkg/errs"
)

// ExecutionStatus represents the job-processing disposition of a trip:
// whether a background worker is currently running it and how the last
// attempt ended. Orthogonal to Status, which expresses the business outcome.
//
// State transitions:
//
//	ExecutionPending ──> ExecutionProcessing ──┬──> ExecutionCompleted
//	        ▲                                  └──> ExecutionFailed
//	        └──────────────(re-execution)───────────────┘
type ExecutionStatus int

const (
	// ExecutionUnknown represents an invalid or undefined execution status.
	ExecutionUnknown ExecutionStatus = iota

	// ExecutionPending means no worker has picked up the trip yet.
	ExecutionPending

	// ExecutionProcessing means a worker currently holds the trip.
	// Two concurrent attempts on the same trip must never both be in this
	// state; the persistence layer enforces it with a row lock.
	ExecutionProcessing

	// ExecutionCompleted means the last attempt ran every stop to a
	// terminal outcome.
	ExecutionCompleted

	// ExecutionFailed means the last attempt aborted or produced no
	// successful stop.
	ExecutionFailed
)

func getExecutionStatusStrings() map[ExecutionStatus]string {
	return map[ExecutionStatus]string{
		ExecutionUnknown:    "unknown",
		ExecutionPending:    "pending",
		ExecutionProcessing: "processing",
		ExecutionCompleted:  "completed",
		ExecutionFailed:     "failed",
	}
}

func getValidExecutionStatusStrings() map[ExecutionStatus]string {
	//nolint:exhaustive // ExecutionUnknown is intentionally excluded as it's invalid
	return map[ExecutionStatus]string{
		ExecutionPending:    "pending",
		ExecutionProcessing: "processing",
		ExecutionCompleted:  "completed",
		ExecutionFailed:     "failed",
	}
}

// Validate checks that the ExecutionStatus holds one of the defined values.
func (s ExecutionStatus) Validate() error {
	if _, ok := getValidExecutionStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"execution status is invalid",
			fmt.Errorf("%d is not a valid execution status", s),
		)
	}
	return nil
}

// String returns the persisted snake_case name of the execution status.
func (s ExecutionStatus) String() string {
	if str, ok := getExecutionStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status ends an attempt.
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionCompleted || s == ExecutionFailed
}

// Begin transitions the status to Processing.
// Rejected while another attempt is already processing.
func (s ExecutionStatus) Begin() (ExecutionStatus, error) {
	if s == ExecutionProcessing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"execution status is invalid",
			fmt.Errorf("trip is already being processed"),
		)
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return ExecutionProcessing, nil
}

// Complete transitions the status to Completed.
func (s ExecutionStatus) Complete() (ExecutionStatus, error) {
	if s != ExecutionProcessing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"execution status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}
	return ExecutionCompleted, nil
}

// Fail transitions the status to Failed. Allowed from any valid state so a
// worker can record a failure even when the attempt died before Processing
// was persisted.
func (s ExecutionStatus) Fail() (ExecutionStatus, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return ExecutionFailed, nil
}
