package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shipping-engine/internal/models"
)

// ShipmentRepository handles database operations for shipments
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *models.Shipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	GetByTrackingCode(ctx context.Context, trackingCode string) (*models.Shipment, error)
	List(ctx context.Context, limit, offset int) ([]*models.Shipment, int64, error)
	ListOpen(ctx context.Context) ([]*models.Shipment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ShippingStatus, rawCode string, problematic bool, movedAt time.Time) error
	AddMovement(ctx context.Context, movement *models.ShipmentMovement) error
}

type shipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository creates a new shipment repository
func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

// Create creates a new shipment record
func (r *shipmentRepository) Create(ctx context.Context, shipment *models.Shipment) error {
	if shipment.ID == uuid.Nil {
		shipment.ID = uuid.New()
	}
	if shipment.LastMovementDate.IsZero() {
		shipment.LastMovementDate = time.Now()
	}
	return r.db.WithContext(ctx).Create(shipment).Error
}

// GetByID retrieves a shipment by ID with its movement history
func (r *shipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC")
		}).
		First(&shipment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// GetByTrackingCode retrieves a shipment by carrier tracking code
func (r *shipmentRepository) GetByTrackingCode(ctx context.Context, trackingCode string) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		First(&shipment, "tracking_code = ?", trackingCode).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// List retrieves shipments with pagination, newest first
func (r *shipmentRepository) List(ctx context.Context, limit, offset int) ([]*models.Shipment, int64, error) {
	var shipments []*models.Shipment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Shipment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&shipments).Error
	if err != nil {
		return nil, 0, err
	}

	return shipments, total, nil
}

// ListOpen retrieves shipments that may still move, excluding terminal
// lifecycle states. The stuck predicate is applied by the caller at read
// time, never here and never stored.
func (r *shipmentRepository) ListOpen(ctx context.Context) ([]*models.Shipment, error) {
	var shipments []*models.Shipment
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", models.TerminalStatuses()).
		Order("last_movement_date ASC").
		Find(&shipments).Error
	if err != nil {
		return nil, err
	}
	return shipments, nil
}

// UpdateStatus applies a classified status intake to a shipment
func (r *shipmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ShippingStatus, rawCode string, problematic bool, movedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Shipment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":             status,
			"fest_status_code":   rawCode,
			"is_problematic":     problematic,
			"last_movement_date": movedAt,
			"updated_at":         time.Now(),
		}).Error
}

// AddMovement records one carrier status intake
func (r *shipmentRepository) AddMovement(ctx context.Context, movement *models.ShipmentMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	if movement.Timestamp.IsZero() {
		movement.Timestamp = time.Now()
	}
	return r.db.WithContext(ctx).Create(movement).Error
}
