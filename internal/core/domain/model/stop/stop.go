package stop

import (
	"errors"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/pkg/errs"
)

// ErrStopIsNotConstructed is returned when a Stop instance was not created
// through NewStop or RestoreStop.
var ErrStopIsNotConstructed = errors.New("Stop must be created via NewStop or RestoreStop constructor")

// Stop associates one external wholesale order with a trip at a 1-based
// sequence position. The sequence determines both the manifest stop number
// and the route segment index.
//
// errorMessage is set on every failure and cleared on every successful saga
// step, so the latest stop-level problem is always visible independent of
// the trip-level aggregate message. manifestID is set only on final success.
type Stop struct {
	id           kernel.UUID
	tripID       kernel.UUID
	orderRef     string
	sequence     int
	address      *string
	roomOverride *string
	status       Status
	errorMessage *string
	manifestID   *string

	isConstructed bool
}

// NewStop creates a pending stop for the given order at a sequence position.
// roomOverride may be nil; the processor then uses the location mapping's
// default room.
func NewStop(
	id kernel.UUID,
	tripID kernel.UUID,
	orderRef string,
	sequence int,
	address *string,
	roomOverride *string,
) (*Stop, error) {
	s := &Stop{
		status:        StatusPending,
		isConstructed: true,
	}

	if err := errors.Join(
		s.setIDs(id, tripID),
		s.setOrderRef(orderRef),
		s.setSequence(sequence),
	); err != nil {
		return nil, err
	}

	s.address = address
	s.roomOverride = roomOverride
	return s, nil
}

// RestoreStop reconstructs a stop from persistence.
func RestoreStop(
	id kernel.UUID,
	tripID kernel.UUID,
	orderRef string,
	sequence int,
	address *string,
	roomOverride *string,
	status Status,
	errorMessage *string,
	manifestID *string,
) (*Stop, error) {
	s := &Stop{
		isConstructed: true,
	}

	if err := errors.Join(
		s.setIDs(id, tripID),
		s.setOrderRef(orderRef),
		s.setSequence(sequence),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	s.address = address
	s.roomOverride = roomOverride
	s.status = status
	s.errorMessage = errorMessage
	s.manifestID = manifestID
	return s, nil
}

// Validate ensures the Stop was constructed through NewStop or RestoreStop.
func (s *Stop) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStopIsNotConstructed
	}
	return nil
}

// ID returns the stop's unique identifier.
func (s *Stop) ID() kernel.UUID {
	return s.id
}

// TripID returns the owning trip's identifier.
func (s *Stop) TripID() kernel.UUID {
	return s.tripID
}

// OrderRef returns the external order identifier.
func (s *Stop) OrderRef() string {
	return s.orderRef
}

// Sequence returns the 1-based position within the trip.
func (s *Stop) Sequence() int {
	return s.sequence
}

// Address returns the delivery address, nil when unknown.
func (s *Stop) Address() *string {
	return s.address
}

// RoomOverride returns the manual staging-room override, nil when unset.
func (s *Stop) RoomOverride() *string {
	return s.roomOverride
}

// Status returns the stop's saga state.
func (s *Stop) Status() Status {
	return s.status
}

// ErrorMessage returns the latest failure or skip message, nil when the
// last step succeeded.
func (s *Stop) ErrorMessage() *string {
	return s.errorMessage
}

// ManifestID returns the ledger manifest identifier, nil until final
// success.
func (s *Stop) ManifestID() *string {
	return s.manifestID
}

// MarkSublotted records a successful bulk split and clears any prior error.
func (s *Stop) MarkSublotted() error {
	newStatus, err := s.status.Sublot()
	if err != nil {
		return err
	}
	s.status = newStatus
	s.errorMessage = nil
	return nil
}

// MarkInventoryMoved records a successful relocation to the staging room.
func (s *Stop) MarkInventoryMoved() error {
	newStatus, err := s.status.MoveInventory()
	if err != nil {
		return err
	}
	s.status = newStatus
	s.errorMessage = nil
	return nil
}

// MarkManifested records the filed manifest and completes the saga.
func (s *Stop) MarkManifested(manifestID string) error {
	if manifestID == "" {
		return errs.NewValueIsRequiredError("manifestID")
	}

	newStatus, err := s.status.Manifest()
	if err != nil {
		return err
	}
	s.status = newStatus
	s.manifestID = &manifestID
	s.errorMessage = nil
	return nil
}

// Skip marks the stop as having no ledger-addressable line items.
// reason is stored as the stop's message; skipped stops are informational
// and excluded from success/failure tallies.
func (s *Stop) Skip(reason string) error {
	newStatus, err := s.status.Skip()
	if err != nil {
		return err
	}
	s.status = newStatus
	s.errorMessage = &reason
	return nil
}

// RecordFailure stores a failure message without advancing the saga.
func (s *Stop) RecordFailure(message string) {
	s.errorMessage = &message
}

// ResetForAttempt rewinds the stop to Pending at the start of a new
// execution attempt. The saga restarts from the split step; it never
// resumes from a prior attempt's checkpoint.
func (s *Stop) ResetForAttempt() {
	s.status = StatusPending
	s.errorMessage = nil
}

func (s *Stop) setIDs(id, tripID kernel.UUID) error {
	if err := errors.Join(id.Validate(), tripID.Validate()); err != nil {
		return err
	}
	s.id = id
	s.tripID = tripID
	return nil
}

func (s *Stop) setOrderRef(orderRef string) error {
	if orderRef == "" {
		return errs.NewValueIsRequiredError("orderRef")
	}
	s.orderRef = orderRef
	return nil
}

func (s *Stop) setSequence(sequence int) error {
	if sequence < 1 {
		return errs.NewValueIsInvalidError("sequence must be 1-based")
	}
	s.sequence = sequence
	return nil
}
