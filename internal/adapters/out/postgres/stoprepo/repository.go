package stoprepo

import (
	"context"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/domain/model/stop"

	"gorm.io/gorm"
)

// GormStopRepository implements StopRepository using GORM.
type GormStopRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStopRepository creates a new GORM stop repository.
func NewGormStopRepository(db *gorm.DB, tracker aggregateTracker) *GormStopRepository {
	return &GormStopRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new stop to the database.
func (r *GormStopRepository) Add(ctx context.Context, aggregate *stop.Stop) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing stop to the database. Nullable checkpoint
// columns are written explicitly so a cleared error message or rewound
// status is persisted.
func (r *GormStopRepository) Update(ctx context.Context, aggregate *stop.Stop) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&StopDTO{}).Where("id = ?", dto.ID).
		Select("OrderRef", "Sequence", "Address", "RoomOverride",
			"Status", "ErrorMessage", "ManifestID").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByTrip retrieves all stops of a trip in ascending sequence order.
func (r *GormStopRepository) GetByTrip(ctx context.Context, tripID kernel.UUID) ([]*stop.Stop, error) {
	if err := tripID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StopDTO
	err := r.db.WithContext(ctx).
		Order("sequence ASC").
		Find(&dtos, "trip_id = ?", tripID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	stops := make([]*stop.Stop, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}

	return stops, nil
}
