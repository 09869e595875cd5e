package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingStatus is the internal shipment lifecycle state
type ShippingStatus string

const (
	StatusPreparing ShippingStatus = "PREPARING"
	StatusShipped   ShippingStatus = "SHIPPED"
	StatusDelivered ShippingStatus = "DELIVERED"
	StatusReturned  ShippingStatus = "RETURNED"
	StatusCancelled ShippingStatus = "CANCELLED"
)

// Terminal reports whether no further carrier updates are expected.
func (s ShippingStatus) Terminal() bool {
	for _, t := range TerminalStatuses() {
		if s == t {
			return true
		}
	}
	return false
}

// TerminalStatuses lists the states Terminal reports true for, in the
// slice shape status queries need
func TerminalStatuses() []ShippingStatus {
	return []ShippingStatus{StatusDelivered, StatusReturned, StatusCancelled}
}

// Shipment is created once a consignment is accepted by the carrier and
// transitions only through status classifier output.
type Shipment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderNumber    string    `gorm:"type:varchar(100);not null;index" json:"orderNumber"`
	TrackingCode   string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"trackingCode"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index" json:"companyId"`
	SubCarrierCode string    `gorm:"type:varchar(50)" json:"subCarrierCode"`

	Status ShippingStatus `gorm:"type:varchar(20);not null;default:'PREPARING'" json:"status"`

	// FestStatusCode is the last raw carrier code received, kept for
	// table maintenance and audit
	FestStatusCode string `gorm:"type:varchar(10)" json:"festStatusCode,omitempty"`

	// IsProblematic marks terminal failure / return-in-progress codes; it
	// is independent of the lifecycle status
	IsProblematic bool `gorm:"default:false;index" json:"isProblematic"`

	LastMovementDate time.Time `gorm:"not null" json:"lastMovementDate"`

	Movements []ShipmentMovement `gorm:"foreignKey:ShipmentID" json:"movements,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for Shipment
func (Shipment) TableName() string {
	return "shipments"
}

// ShipmentMovement records one carrier status intake
type ShipmentMovement struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ShipmentID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"shipmentId"`
	StatusCode  string         `gorm:"type:varchar(10)" json:"statusCode"`
	Status      ShippingStatus `gorm:"type:varchar(20);not null" json:"status"`
	Description string         `gorm:"type:text" json:"description"`
	Timestamp   time.Time      `gorm:"not null" json:"timestamp"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for ShipmentMovement
func (ShipmentMovement) TableName() string {
	return "shipment_movements"
}

// ShipmentResponse decorates a shipment with the read-time stuck flag,
// which is re-evaluated on every read and never stored.
type ShipmentResponse struct {
	Shipment
	IsStuck bool `json:"isStuck"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message *string     `json:"message,omitempty"`
}

// ListShipmentsResponse represents a paginated list of shipments
type ListShipmentsResponse struct {
	Success bool               `json:"success"`
	Data    []ShipmentResponse `json:"data"`
	Total   int64              `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}
