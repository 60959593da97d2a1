package ports

import (
	"context"
	"errors"
	"fmt"

	"tripledger/internal/core/domain/model/kernel"
)

// ErrLedgerRejected is the sentinel wrapped by every structured ledger
// rejection, so callers can branch with errors.Is while LedgerError carries
// the vendor detail.
var ErrLedgerRejected = errors.New("ledger rejected the request")

// LedgerError is a structured rejection from the compliance ledger,
// normalized at the client boundary from the provider's ad hoc
// success-flag-plus-error-fields response shape.
type LedgerError struct {
	// Code is the vendor error code, "unknown" when the provider omitted
	// one.
	Code string

	// Message is the vendor error message.
	Message string
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger error %s: %s", e.Code, e.Message)
}

func (e *LedgerError) Unwrap() error {
	return ErrLedgerRejected
}

// LedgerSession is the authenticated session capability shared by all
// ledger calls of one execution attempt. It is passed explicitly through
// the saga rather than held as ambient state.
type LedgerSession string

// SplitItem is one line of a bulk split request: take Quantity out of the
// inventory unit identified by UnitID into a new shippable sub-unit.
type SplitItem struct {
	UnitID   kernel.UnitID
	Quantity float64
}

// MoveItem is one line of a bulk move request: relocate UnitID into Room.
type MoveItem struct {
	UnitID kernel.UnitID
	Room   string
}

// ManifestRequest carries everything the ledger needs to file a transport
// manifest for one stop.
type ManifestRequest struct {
	UnitIDs       []kernel.UnitID
	StopNumber    int
	DepartureUnix int64
	ArrivalUnix   int64
	RouteText     string
	VendorLicense string

	Driver1LedgerID string
	Driver2LedgerID string
	VehicleLedgerID string
}

// LedgerClient is the contract with the external compliance/traceability
// ledger. Implementations normalize the provider's duck-typed responses
// into typed results before they reach saga logic: rejections surface as
// *LedgerError, quantities as float64 regardless of the wire encoding.
type LedgerClient interface {
	// Authenticate opens a ledger session. One session spans a whole
	// execution attempt; authentication failure before any stop is
	// processed is fatal to the trip.
	Authenticate(ctx context.Context) (LedgerSession, error)

	// SplitUnits submits one bulk split for all of a stop's line items and
	// returns the newly created unit identifiers.
	SplitUnits(ctx context.Context, session LedgerSession, items []SplitItem) ([]kernel.UnitID, error)

	// MoveUnits submits one bulk move of freshly split units into a room.
	MoveUnits(ctx context.Context, session LedgerSession, items []MoveItem) error

	// FileManifest files the transport manifest for one stop and returns
	// the ledger's manifest identifier.
	FileManifest(ctx context.Context, session LedgerSession, req ManifestRequest) (string, error)

	// GetOnHandQuantities returns the current on-hand quantity of every
	// inventory unit. Fetched once per validation so every per-unit
	// comparison sees the same snapshot.
	GetOnHandQuantities(ctx context.Context, session LedgerSession) (map[kernel.UnitID]float64, error)
}
