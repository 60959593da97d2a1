package locationrepo

import (
	"context"
	"errors"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/ports"
	"tripledger/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLocationMappingRepository implements LocationMappingRepository using
// GORM. The tables it reads are reference data maintained outside the
// execution flow, so the repository is read-only.
type GormLocationMappingRepository struct {
	db *gorm.DB
}

// NewGormLocationMappingRepository creates a new GORM location mapping
// repository.
func NewGormLocationMappingRepository(db *gorm.DB) *GormLocationMappingRepository {
	return &GormLocationMappingRepository{db: db}
}

// GetByCatalogLocation resolves a catalog location id to its ledger mapping.
func (r *GormLocationMappingRepository) GetByCatalogLocation(
	ctx context.Context,
	catalogLocationID string,
) (ports.LocationMapping, error) {
	if catalogLocationID == "" {
		return ports.LocationMapping{}, errs.NewValueIsRequiredError("catalogLocationID")
	}

	var dto LocationMappingDTO
	err := r.db.WithContext(ctx).First(&dto, "catalog_location_id = ?", catalogLocationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.LocationMapping{}, errs.NewObjectNotFoundError("location mapping", catalogLocationID)
		}
		return ports.LocationMapping{}, err
	}

	return mappingToDomain(dto), nil
}

// GetDriver resolves a driver reference.
func (r *GormLocationMappingRepository) GetDriver(ctx context.Context, id kernel.UUID) (ports.Driver, error) {
	if err := id.Validate(); err != nil {
		return ports.Driver{}, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Driver{}, errs.NewObjectNotFoundError("driver", id.String())
		}
		return ports.Driver{}, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Driver{}, err
	}

	return ports.Driver{ID: driverID, LedgerID: dto.LedgerID, Name: dto.Name}, nil
}

// GetVehicle resolves a vehicle reference.
func (r *GormLocationMappingRepository) GetVehicle(ctx context.Context, id kernel.UUID) (ports.Vehicle, error) {
	if err := id.Validate(); err != nil {
		return ports.Vehicle{}, err
	}

	var dto VehicleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Vehicle{}, errs.NewObjectNotFoundError("vehicle", id.String())
		}
		return ports.Vehicle{}, err
	}

	vehicleID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Vehicle{}, err
	}

	return ports.Vehicle{ID: vehicleID, LedgerID: dto.LedgerID, Name: dto.Name}, nil
}
