// Package execution contains the ExecutionRecord entity: the per-trip
// progress bookkeeping consulted by pollers while a worker runs the trip.
package execution

import (
	"errors"
	"time"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/trip"
)

// ErrRecordIsNotConstructed is returned when a Record was not created via
// NewRecord or RestoreRecord.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord or RestoreRecord constructor")

// Record is the execution progress record for one trip, created lazily on
// the first status update of an attempt and mutated on every phase
// transition. CompletedAt is stamped exactly when the status enters
// completed or failed.
type Record struct {
	tripID          kernel.UUID
	status          trip.ExecutionStatus
	progressMessage string
	generalError    *string
	createdAt       time.Time
	updatedAt       time.Time
	startedAt       time.Time
	completedAt     *time.Time

	isConstructed bool
}

// NewRecord creates a record for a trip's first progress update.
func NewRecord(tripID kernel.UUID, status trip.ExecutionStatus, message string, now time.Time) (*Record, error) {
	if err := errors.Join(tripID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	r := &Record{
		tripID:          tripID,
		status:          status,
		progressMessage: message,
		createdAt:       now,
		updatedAt:       now,
		startedAt:       now,
		isConstructed:   true,
	}
	r.stampCompletion(now)
	return r, nil
}

// RestoreRecord reconstructs a record from persistence.
func RestoreRecord(
	tripID kernel.UUID,
	status trip.ExecutionStatus,
	message string,
	generalError *string,
	createdAt, updatedAt, startedAt time.Time,
	completedAt *time.Time,
) (*Record, error) {
	if err := errors.Join(tripID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Record{
		tripID:          tripID,
		status:          status,
		progressMessage: message,
		generalError:    generalError,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		startedAt:       startedAt,
		completedAt:     completedAt,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Record was properly constructed.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// TripID returns the owning trip's identifier.
func (r *Record) TripID() kernel.UUID { return r.tripID }

// Status returns the recorded execution status.
func (r *Record) Status() trip.ExecutionStatus { return r.status }

// ProgressMessage returns the latest human-readable progress message.
func (r *Record) ProgressMessage() string { return r.progressMessage }

// GeneralError returns the trip-wide error, nil when none occurred.
func (r *Record) GeneralError() *string { return r.generalError }

// CreatedAt returns the record creation time.
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last mutation time.
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

// StartedAt returns the start of the attempt that created the record.
func (r *Record) StartedAt() time.Time { return r.startedAt }

// CompletedAt returns the terminal-transition time, nil while running.
func (r *Record) CompletedAt() *time.Time { return r.completedAt }

// Update applies a phase transition: new status, new message, updated
// timestamp. Stamps CompletedAt when the status becomes terminal.
func (r *Record) Update(status trip.ExecutionStatus, message string, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	r.status = status
	r.progressMessage = message
	r.updatedAt = now
	r.stampCompletion(now)
	return nil
}

// SetGeneralError records a trip-wide failure, as opposed to a per-stop
// error message.
func (r *Record) SetGeneralError(message string) {
	r.generalError = &message
}

func (r *Record) stampCompletion(now time.Time) {
	if r.status.IsTerminal() && r.completedAt == nil {
		r.completedAt = &now
	}
}
