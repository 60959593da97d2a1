// Package locationrepo provides read-side persistence for the reference
// data execution depends on: catalog-to-ledger location mappings and the
// driver and vehicle records whose ledger identities appear on manifests.
package locationrepo

import (
	"tripledger/internal/core/ports"

	"github.com/google/uuid"
)

// LocationMappingDTO represents the database structure for location
// mappings. The catalog location id is the lookup key.
type LocationMappingDTO struct {
	CatalogLocationID string `gorm:"primaryKey"`
	VendorLicense     string
	DefaultRoom       *string
}

// TableName specifies the database table name for location mappings.
func (LocationMappingDTO) TableName() string {
	return "location_mappings"
}

// DriverDTO represents the database structure for driver records.
type DriverDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	LedgerID string
	Name     string
}

// TableName specifies the database table name for drivers.
func (DriverDTO) TableName() string {
	return "drivers"
}

// VehicleDTO represents the database structure for vehicle records.
type VehicleDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	LedgerID string
	Name     string
}

// TableName specifies the database table name for vehicles.
func (VehicleDTO) TableName() string {
	return "vehicles"
}

func mappingToDomain(dto LocationMappingDTO) ports.LocationMapping {
	return ports.LocationMapping{
		CatalogLocationID: dto.CatalogLocationID,
		VendorLicense:     dto.VendorLicense,
		DefaultRoom:       dto.DefaultRoom,
	}
}
