package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Shipment lifecycle event types
const (
	ShipmentCreated       = "shipping.shipment_created"
	ShipmentStatusChanged = "shipping.status_changed"
	ShipmentProblem       = "shipping.problem_flagged"
	ShipmentStuck         = "shipping.stuck_detected"
)

// ShippingEvent represents a shipment lifecycle event
type ShippingEvent struct {
	EventType    string    `json:"eventType"`
	Timestamp    time.Time `json:"timestamp"`
	ShipmentID   string    `json:"shipmentId,omitempty"`
	OrderNumber  string    `json:"orderNumber,omitempty"`
	TrackingCode string    `json:"trackingCode,omitempty"`
	Carrier      string    `json:"carrier,omitempty"`
	Status       string    `json:"status,omitempty"`
	RawCode      string    `json:"rawCode,omitempty"`
	Detail       string    `json:"detail,omitempty"`
}

// Publisher publishes shipment lifecycle events to NATS. Publishing is
// fire-and-forget: a failed or absent connection is logged, never
// surfaced to callers. A nil Publisher is safe to call.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS and returns a publisher
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("shipping-engine"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "events.publisher"),
	}, nil
}

func (p *Publisher) publish(event *ShippingEvent) {
	if p == nil || p.conn == nil {
		return
	}
	event.Timestamp = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("Failed to marshal event")
		return
	}
	if err := p.conn.Publish(event.EventType, data); err != nil {
		p.logger.WithError(err).WithField("eventType", event.EventType).Warn("Failed to publish event")
	}
}

// PublishShipmentCreated publishes a shipment created event
func (p *Publisher) PublishShipmentCreated(shipmentID, orderNumber, trackingCode, carrier string) {
	p.publish(&ShippingEvent{
		EventType:    ShipmentCreated,
		ShipmentID:   shipmentID,
		OrderNumber:  orderNumber,
		TrackingCode: trackingCode,
		Carrier:      carrier,
		Status:       "PREPARING",
	})
}

// PublishStatusChanged publishes a shipment status change event
func (p *Publisher) PublishStatusChanged(shipmentID, trackingCode, status, rawCode string) {
	p.publish(&ShippingEvent{
		EventType:    ShipmentStatusChanged,
		ShipmentID:   shipmentID,
		TrackingCode: trackingCode,
		Status:       status,
		RawCode:      rawCode,
	})
}

// PublishProblemFlagged publishes an event for a shipment that entered a
// problematic carrier state
func (p *Publisher) PublishProblemFlagged(shipmentID, trackingCode, status, rawCode string) {
	p.publish(&ShippingEvent{
		EventType:    ShipmentProblem,
		ShipmentID:   shipmentID,
		TrackingCode: trackingCode,
		Status:       status,
		RawCode:      rawCode,
	})
}

// PublishStuckDetected publishes an event for a shipment without
// movement past the stuck threshold
func (p *Publisher) PublishStuckDetected(shipmentID, trackingCode, status, detail string) {
	p.publish(&ShippingEvent{
		EventType:    ShipmentStuck,
		ShipmentID:   shipmentID,
		TrackingCode: trackingCode,
		Status:       status,
		Detail:       detail,
	})
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}
