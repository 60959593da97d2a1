package stop

import (
	"fmt"

	"tripledger/internal/pkg/errs"
)

// Status tracks a stop's progress through the three-step ledger saga.
// Within one execution attempt the status advances monotonically:
//
//	Pending ──> Sublotted ──> InventoryMoved ──> Manifested
//	   │
//	   └──> Skipped (no valid ledger units; terminal, informational)
//
// A retried attempt does not resume mid-saga: the processor rewinds the
// stop to Pending and restarts from the split step.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending means no saga step has succeeded yet this attempt.
	StatusPending

	// StatusSublotted means the ledger accepted the bulk split.
	StatusSublotted

	// StatusInventoryMoved means the new units were relocated to the
	// staging room.
	StatusInventoryMoved

	// StatusManifested means the transport manifest was filed; the stop
	// succeeded.
	StatusManifested

	// StatusSkipped means the stop had no ledger-addressable line items.
	// Skipped stops never advance further and are excluded from pass/fail
	// aggregation.
	StatusSkipped
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:        "unknown",
		StatusPending:        "pending",
		StatusSublotted:      "sublotted",
		StatusInventoryMoved: "inventory_moved",
		StatusManifested:     "manifested",
		StatusSkipped:        "skipped",
	}
}

// Validate checks that the Status holds one of the defined values.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
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

// advance validates a single saga transition.
func (s Status) advance(from, to Status) (Status, error) {
	if s != from {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot advance from %s to %s", s.String(), to.String()),
		)
	}
	return to, nil
}

// Sublot transitions Pending -> Sublotted.
func (s Status) Sublot() (Status, error) {
	return s.advance(StatusPending, StatusSublotted)
}

// MoveInventory transitions Sublotted -> InventoryMoved.
func (s Status) MoveInventory() (Status, error) {
	return s.advance(StatusSublotted, StatusInventoryMoved)
}

// Manifest transitions InventoryMoved -> Manifested.
func (s Status) Manifest() (Status, error) {
	return s.advance(StatusInventoryMoved, StatusManifested)
}

// Skip transitions Pending -> Skipped.
func (s Status) Skip() (Status, error) {
	return s.advance(StatusPending, StatusSkipped)
}
