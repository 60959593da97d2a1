package trip

import (
	"errors"
	"time"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/pkg/errs"
)

var (
	// ErrTripIsNotConstructed is returned when a Trip instance was not
	// created through NewTrip or RestoreTrip.
	ErrTripIsNotConstructed = errors.New("Trip must be created via NewTrip or RestoreTrip constructor")

	// ErrRoutePlanAlreadyAttached is returned when attaching a plan to a
	// trip that already carries one. The plan is a write-once idempotency
	// boundary: once persisted, every retry replays the same timestamps.
	ErrRoutePlanAlreadyAttached = errors.New("trip already has a route plan")
)

// Trip is the aggregate root for one planned delivery run: an ordered set of
// stops assigned to two drivers and a vehicle, reported to the compliance
// ledger before the shipment moves.
//
// A trip carries two orthogonal states. Status is the business disposition
// (is the shipment validated / manifested); ExecutionStatus is the
// job-processing disposition (is a worker currently running it). Both are
// always present and change independently: a failed attempt flips
// ExecutionStatus to failed while leaving Status untouched.
type Trip struct {
	id                   kernel.UUID
	status               Status
	executionStatus      ExecutionStatus
	deliveryDate         time.Time
	approximateStartTime *time.Time
	routePlan            *RoutePlan
	driver1ID            kernel.UUID
	driver2ID            kernel.UUID
	vehicleID            kernel.UUID
	transactedAt         *time.Time

	isConstructed bool
}

// NewTrip creates a pending trip for the given delivery date, drivers and
// vehicle. approximateStartTime may be nil; execution then assumes 08:00 on
// the delivery date when requesting a route plan.
func NewTrip(
	id kernel.UUID,
	deliveryDate time.Time,
	approximateStartTime *time.Time,
	driver1ID kernel.UUID,
	driver2ID kernel.UUID,
	vehicleID kernel.UUID,
) (*Trip, error) {
	t := &Trip{
		status:          StatusPending,
		executionStatus: ExecutionPending,
		isConstructed:   true,
	}

	if err := errors.Join(
		t.setID(id),
		t.setDeliveryDate(deliveryDate),
		t.setCrew(driver1ID, driver2ID, vehicleID),
	); err != nil {
		return nil, err
	}

	t.approximateStartTime = approximateStartTime
	return t, nil
}

// RestoreTrip reconstructs a trip from persistence without re-running the
// creation transitions. All stored fields are still validated.
func RestoreTrip(
	id kernel.UUID,
	status Status,
	executionStatus ExecutionStatus,
	deliveryDate time.Time,
	approximateStartTime *time.Time,
	routePlan *RoutePlan,
	driver1ID kernel.UUID,
	driver2ID kernel.UUID,
	vehicleID kernel.UUID,
	transactedAt *time.Time,
) (*Trip, error) {
	t := &Trip{
		isConstructed: true,
	}

	if err := errors.Join(
		t.setID(id),
		status.Validate(),
		executionStatus.Validate(),
		t.setDeliveryDate(deliveryDate),
		t.setCrew(driver1ID, driver2ID, vehicleID),
	); err != nil {
		return nil, err
	}

	t.status = status
	t.executionStatus = executionStatus
	t.approximateStartTime = approximateStartTime
	t.routePlan = routePlan
	t.transactedAt = transactedAt
	return t, nil
}

// Validate ensures the Trip was constructed through NewTrip or RestoreTrip.
func (t *Trip) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTripIsNotConstructed
	}
	return nil
}

// IsEqual compares two trips by identifier.
func (t *Trip) IsEqual(other *Trip) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the trip's unique identifier.
func (t *Trip) ID() kernel.UUID {
	return t.id
}

// Status returns the trip's business disposition.
func (t *Trip) Status() Status {
	return t.status
}

// ExecutionStatus returns the trip's job-processing disposition.
func (t *Trip) ExecutionStatus() ExecutionStatus {
	return t.executionStatus
}

// DeliveryDate returns the planned delivery date.
func (t *Trip) DeliveryDate() time.Time {
	return t.deliveryDate
}

// ApproximateStartTime returns the planned start time, nil when unset.
func (t *Trip) ApproximateStartTime() *time.Time {
	return t.approximateStartTime
}

// DepartureTime returns the effective start of the trip: the approximate
// start time when set, otherwise 08:00 on the delivery date.
func (t *Trip) DepartureTime() time.Time {
	if t.approximateStartTime != nil {
		return *t.approximateStartTime
	}
	d := t.deliveryDate
	return time.Date(d.Year(), d.Month(), d.Day(), 8, 0, 0, 0, d.Location())
}

// RoutePlan returns the cached route plan, nil when none was generated yet.
func (t *Trip) RoutePlan() *RoutePlan {
	return t.routePlan
}

// Driver1ID returns the first assigned driver.
func (t *Trip) Driver1ID() kernel.UUID {
	return t.driver1ID
}

// Driver2ID returns the second assigned driver.
func (t *Trip) Driver2ID() kernel.UUID {
	return t.driver2ID
}

// VehicleID returns the assigned vehicle.
func (t *Trip) VehicleID() kernel.UUID {
	return t.vehicleID
}

// TransactedAt returns the completion timestamp of the last successful
// attempt, nil when the trip never completed.
func (t *Trip) TransactedAt() *time.Time {
	return t.transactedAt
}

// MarkValidated records that pre-execution validation passed.
// This is the only mutation the validator performs.
func (t *Trip) MarkValidated() error {
	newStatus, err := t.status.MarkValidated()
	if err != nil {
		return err
	}
	t.status = newStatus
	return nil
}

// AttachRoutePlan stores the generated route plan on the trip. Returns
// ErrRoutePlanAlreadyAttached when a plan already exists; existing plans
// are immutable for the remainder of the trip's lifetime.
func (t *Trip) AttachRoutePlan(plan RoutePlan) error {
	if t.routePlan != nil {
		return ErrRoutePlanAlreadyAttached
	}
	if plan.Len() == 0 {
		return ErrRoutePlanIsEmpty
	}
	t.routePlan = &plan
	return nil
}

// BeginExecution transitions the trip into processing. Rejected when
// another attempt is already processing; the repository additionally holds
// a row lock while this transition is persisted.
func (t *Trip) BeginExecution() error {
	newStatus, err := t.executionStatus.Begin()
	if err != nil {
		return err
	}
	t.executionStatus = newStatus
	return nil
}

// CompleteExecution finishes an attempt in which every stop succeeded or
// was skipped. Stamps the transaction time.
func (t *Trip) CompleteExecution(now time.Time) error {
	newExec, err := t.executionStatus.Complete()
	if err != nil {
		return err
	}
	newStatus, err := t.status.Complete()
	if err != nil {
		return err
	}

	t.executionStatus = newExec
	t.status = newStatus
	t.transactedAt = &now
	return nil
}

// CompleteExecutionPartially finishes an attempt with both successes and
// failures. The attempt is done, the business outcome is partial.
func (t *Trip) CompleteExecutionPartially(now time.Time) error {
	newExec, err := t.executionStatus.Complete()
	if err != nil {
		return err
	}
	newStatus, err := t.status.CompletePartially()
	if err != nil {
		return err
	}

	t.executionStatus = newExec
	t.status = newStatus
	t.transactedAt = &now
	return nil
}

// FailExecution records a failed attempt. The business status is
// deliberately left unchanged so the trip remains eligible for inspection
// and re-execution.
func (t *Trip) FailExecution() error {
	newExec, err := t.executionStatus.Fail()
	if err != nil {
		return err
	}
	t.executionStatus = newExec
	return nil
}

func (t *Trip) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Trip) setDeliveryDate(deliveryDate time.Time) error {
	if deliveryDate.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}
	t.deliveryDate = deliveryDate
	return nil
}

func (t *Trip) setCrew(driver1ID, driver2ID, vehicleID kernel.UUID) error {
	if err := errors.Join(
		driver1ID.Validate(),
		driver2ID.Validate(),
		vehicleID.Validate(),
	); err != nil {
		return err
	}

	t.driver1ID = driver1ID
	t.driver2ID = driver2ID
	t.vehicleID = vehicleID
	return nil
}
