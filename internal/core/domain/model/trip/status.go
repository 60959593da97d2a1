package trip

import (
	"fmt"

	"tripledger/internal/pkg/errs"
)

// Status represents the business disposition of a trip: whether the shipment
// has been validated against the ledger and whether its manifests were filed.
// It is deliberately independent of ExecutionStatus, which tracks job
// processing; both are required on every trip.
//
// State transitions:
//
//	Pending ──> Validated ──┬──> Completed
//	   │            │       └──> PartiallyCompleted
//	   └────────────┴──────────> (unchanged on a failed attempt)
//
// A failed execution attempt leaves Status untouched so the trip remains
// eligible for inspection and re-execution.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending is the initial status of a newly planned trip.
	StatusPending

	// StatusValidated indicates the trip passed pre-execution validation.
	StatusValidated

	// StatusPartiallyCompleted indicates an execution attempt in which some
	// stops were manifested and others failed.
	StatusPartiallyCompleted

	// StatusCompleted indicates every non-skipped stop was manifested.
	StatusCompleted
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:            "unknown",
		StatusPending:            "pending",
		StatusValidated:          "validated",
		StatusPartiallyCompleted: "partially_completed",
		StatusCompleted:          "completed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:            "pending",
		StatusValidated:          "validated",
		StatusPartiallyCompleted: "partially_completed",
		StatusCompleted:          "completed",
	}
}

// Validate checks that the Status holds one of the defined values.
// Used when reconstructing trips from persistence.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted snake_case name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValidateMarkValidated checks whether validation may stamp the trip.
// Completed trips are final and cannot be re-validated.
func (s Status) ValidateMarkValidated() error {
	if s == StatusCompleted {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a validatable status", s.String()),
		)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	return nil
}

// MarkValidated transitions the status to Validated.
// Allowed from any non-final status; re-validation of an already validated
// trip is a no-op transition back to Validated.
func (s Status) MarkValidated() (Status, error) {
	if err := s.ValidateMarkValidated(); err != nil {
		return 0, err
	}
	return StatusValidated, nil
}

// Complete transitions the status to Completed.
func (s Status) Complete() (Status, error) {
	if s == StatusCompleted {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is already a final status", s.String()),
		)
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return StatusCompleted, nil
}

// CompletePartially transitions the status to PartiallyCompleted.
func (s Status) CompletePartially() (Status, error) {
	if s == StatusCompleted {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is already a final status", s.String()),
		)
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return StatusPartiallyCompleted, nil
}
