package executionrepo

import (
	"context"
	"errors"

	"tripledger/internal/core/domain/model/execution"
	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/ports"
	"tripledger/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// GormExecutionRepository implements ExecutionRepository using GORM.
type GormExecutionRepository struct {
	db *gorm.DB
}

// NewGormExecutionRepository creates a new GORM execution record repository.
func NewGormExecutionRepository(db *gorm.DB) *GormExecutionRepository {
	return &GormExecutionRepository{db: db}
}

// Add saves a new execution record. Returns ports.ErrExecutionRecordExists
// when the trip already has one; the primary key constraint arbitrates
// races between concurrent inserters.
func (r *GormExecutionRepository) Add(ctx context.Context, record *execution.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isDuplicateKey(err) {
			return ports.ErrExecutionRecordExists
		}
		return err
	}

	return nil
}

// Update saves an existing execution record.
func (r *GormExecutionRepository) Update(ctx context.Context, record *execution.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).Model(&ExecutionDTO{}).Where("trip_id = ?", dto.TripID).
		Select("Status", "ProgressMessage", "GeneralError",
			"CreatedAt", "UpdatedAt", "StartedAt", "CompletedAt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetByTrip retrieves the execution record for a trip.
func (r *GormExecutionRepository) GetByTrip(ctx context.Context, tripID kernel.UUID) (*execution.Record, error) {
	if err := tripID.Validate(); err != nil {
		return nil, err
	}

	var dto ExecutionDTO
	if err := r.db.WithContext(ctx).First(&dto, "trip_id = ?", tripID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("execution record", tripID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// isDuplicateKey recognizes a unique constraint violation from either the
// lib/pq driver or GORM's translated error.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
