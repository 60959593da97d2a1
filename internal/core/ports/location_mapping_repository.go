package ports

import (
	"context"

	"tripledger/internal/core/domain/model/kernel"
)

// LocationMapping links an order catalog location to its compliance ledger
// identity: the vendor license manifests are filed against and the default
// staging room splits are moved into.
type LocationMapping struct {
	CatalogLocationID string
	VendorLicense     string
	DefaultRoom       *string
}

// Driver is the read model for an assigned driver, carrying the ledger-side
// employee identifier required on manifests.
type Driver struct {
	ID       kernel.UUID
	LedgerID string
	Name     string
}

// Vehicle is the read model for the assigned vehicle.
type Vehicle struct {
	ID       kernel.UUID
	LedgerID string
	Name     string
}

// LocationMappingRepository resolves catalog locations and crew records.
type LocationMappingRepository interface {
	// GetByCatalogLocation resolves a catalog location id to its ledger
	// mapping. Returns an ObjectNotFoundError when no mapping exists.
	GetByCatalogLocation(ctx context.Context, catalogLocationID string) (LocationMapping, error)

	// GetDriver resolves a driver reference. Returns an
	// ObjectNotFoundError for unknown drivers.
	GetDriver(ctx context.Context, id kernel.UUID) (Driver, error)

	// GetVehicle resolves a vehicle reference. Returns an
	// ObjectNotFoundError for unknown vehicles.
	GetVehicle(ctx context.Context, id kernel.UUID) (Vehicle, error)
}
