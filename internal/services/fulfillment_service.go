package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shipping-engine/internal/carriers"
	"shipping-engine/internal/engine"
	"shipping-engine/internal/events"
	"shipping-engine/internal/models"
	"shipping-engine/internal/repository"
)

// ErrCarrierNotFound is returned when the requested company or
// sub-carrier does not exist in the active configuration.
var ErrCarrierNotFound = errors.New("carrier not found")

// ErrShipmentNotFound is returned when no shipment matches the lookup.
var ErrShipmentNotFound = errors.New("shipment not found")

// RuralMismatchError is returned when an order flagged rural is routed
// to a company that does not handle rural addresses. The operator may
// override it by acknowledging the warning on resubmission.
type RuralMismatchError struct {
	Company string
}

func (e *RuralMismatchError) Error() string {
	return fmt.Sprintf("company %s does not handle rural addresses", e.Company)
}

// FulfillmentService handles carrier selection, quoting and dispatch
type FulfillmentService interface {
	ListEligibleCarriers(ctx context.Context, request models.EligibilityRequest) ([]engine.CarrierOption, error)
	QuoteShipment(ctx context.Context, request models.QuoteRequest) (*models.QuoteResponse, error)
	SubmitConsignment(ctx context.Context, request models.ConsignmentRequest) (*models.Shipment, error)
	GetShipment(ctx context.Context, id uuid.UUID) (*models.ShipmentResponse, error)
	GetShipmentByTracking(ctx context.Context, trackingCode string) (*models.ShipmentResponse, error)
	ListShipments(ctx context.Context, limit, offset int) (*models.ListShipmentsResponse, error)
	ListStuckShipments(ctx context.Context) ([]models.ShipmentResponse, error)
	ApplyStatusUpdate(ctx context.Context, request models.StatusUpdateRequest) (*models.ShipmentResponse, error)
	RefreshStatuses(ctx context.Context) error
}

type fulfillmentService struct {
	companyRepo    *repository.CompanyRepository
	shipmentRepo   repository.ShipmentRepository
	carrierFactory *carriers.Factory
	publisher      *events.Publisher
	stuckThreshold time.Duration
}

// NewFulfillmentService creates a new fulfillment service. A zero
// stuckThreshold falls back to the engine default.
func NewFulfillmentService(
	companyRepo *repository.CompanyRepository,
	shipmentRepo repository.ShipmentRepository,
	carrierFactory *carriers.Factory,
	publisher *events.Publisher,
	stuckThreshold time.Duration,
) FulfillmentService {
	if stuckThreshold <= 0 {
		stuckThreshold = engine.DefaultStuckThreshold
	}
	return &fulfillmentService{
		companyRepo:    companyRepo,
		shipmentRepo:   shipmentRepo,
		carrierFactory: carrierFactory,
		publisher:      publisher,
		stuckThreshold: stuckThreshold,
	}
}

// ListEligibleCarriers returns the (company, sub-carrier) pairs usable
// for the given payment method and address kind
func (s *fulfillmentService) ListEligibleCarriers(ctx context.Context, request models.EligibilityRequest) ([]engine.CarrierOption, error) {
	companies, err := s.companyRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load carrier configuration: %w", err)
	}
	return engine.EligibleCarriers(companies, request.PaymentMethod, request.IsRural), nil
}

// QuoteShipment computes the shipping cost breakdown for a chosen
// carrier, with an optional profit estimate when revenue is supplied
func (s *fulfillmentService) QuoteShipment(ctx context.Context, request models.QuoteRequest) (*models.QuoteResponse, error) {
	option, err := s.resolveOption(ctx, request.CompanyID, request.SubCarrierCode)
	if err != nil {
		return nil, err
	}

	quote, err := engine.CalculateQuote(engine.QuoteInput{
		SubCarrier:    option.SubCarrier,
		Desi:          request.Desi,
		CodAmount:     request.CodAmount,
		PaymentMethod: request.PaymentMethod,
		DirectPricing: option.Company.Type == models.CompanyTypeDirect,
	})
	if err != nil {
		return nil, err
	}

	response := &models.QuoteResponse{Success: true, Quote: quote}
	if request.Revenue != nil {
		profit := engine.EstimateProfit(quote, *request.Revenue)
		response.Profit = &profit
	}
	return response, nil
}

// SubmitConsignment dispatches an order to the chosen carrier and
// records the accepted shipment.
//
// A payment method the sub-carrier cannot collect for is always
// rejected. A rural order routed to a non-rural company is rejected
// with a warning the operator can acknowledge to proceed anyway.
func (s *fulfillmentService) SubmitConsignment(ctx context.Context, request models.ConsignmentRequest) (*models.Shipment, error) {
	option, err := s.resolveOption(ctx, request.CompanyID, request.SubCarrierCode)
	if err != nil {
		return nil, err
	}

	if request.Order.IsRural && !option.Company.HandlesRuralAddresses {
		if !request.AcknowledgeWarning {
			return nil, &RuralMismatchError{Company: option.Company.Name}
		}
		log.Printf("Rural mismatch acknowledged for order %s on company %s", request.Order.OrderNumber, option.Company.Name)
	}

	payload, err := carriers.BuildConsignmentPayload(request.Order, option.SubCarrier, request.CodAmountOverride)
	if err != nil {
		return nil, err
	}

	carrier, err := s.carrierFactory.CreateCarrier(option.Company)
	if err != nil {
		return nil, fmt.Errorf("failed to create carrier client: %w", err)
	}

	trackingCode, err := carrier.Submit(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("carrier %s rejected consignment: %w", carrier.Name(), err)
	}

	shipment := &models.Shipment{
		OrderNumber:      request.Order.OrderNumber,
		TrackingCode:     trackingCode,
		CompanyID:        option.Company.ID,
		SubCarrierCode:   option.SubCarrier.Code,
		Status:           models.StatusPreparing,
		LastMovementDate: time.Now().UTC(),
	}
	if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
		return nil, fmt.Errorf("failed to save shipment: %w", err)
	}

	log.Printf("Consignment accepted: order %s tracking %s via %s/%s",
		shipment.OrderNumber, shipment.TrackingCode, option.Company.Code, option.SubCarrier.Code)

	s.publisher.PublishShipmentCreated(shipment.ID.String(), shipment.OrderNumber, shipment.TrackingCode, option.Company.Code)
	return shipment, nil
}

// GetShipment returns a shipment by ID with the stuck flag evaluated
func (s *fulfillmentService) GetShipment(ctx context.Context, id uuid.UUID) (*models.ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	response := s.decorate(shipment)
	return &response, nil
}

// GetShipmentByTracking returns a shipment by tracking code with the
// stuck flag evaluated
func (s *fulfillmentService) GetShipmentByTracking(ctx context.Context, trackingCode string) (*models.ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.GetByTrackingCode(ctx, trackingCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	response := s.decorate(shipment)
	return &response, nil
}

// ListShipments returns a page of shipments, newest first
func (s *fulfillmentService) ListShipments(ctx context.Context, limit, offset int) (*models.ListShipmentsResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	shipments, total, err := s.shipmentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	data := make([]models.ShipmentResponse, 0, len(shipments))
	for _, shipment := range shipments {
		data = append(data, s.decorate(shipment))
	}
	return &models.ListShipmentsResponse{
		Success: true,
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// ListStuckShipments returns open shipments whose last movement is
// older than the stuck threshold
func (s *fulfillmentService) ListStuckShipments(ctx context.Context) ([]models.ShipmentResponse, error) {
	open, err := s.shipmentRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stuck := make([]models.ShipmentResponse, 0)
	for _, shipment := range open {
		if engine.IsStuck(shipment.Status, shipment.LastMovementDate, now, s.stuckThreshold) {
			stuck = append(stuck, models.ShipmentResponse{Shipment: *shipment, IsStuck: true})
		}
	}
	return stuck, nil
}

// ApplyStatusUpdate classifies a raw carrier status code and applies
// it to the shipment it belongs to
func (s *fulfillmentService) ApplyStatusUpdate(ctx context.Context, request models.StatusUpdateRequest) (*models.ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.GetByTrackingCode(ctx, request.TrackingCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}

	if shipment.Status.Terminal() {
		// Carriers occasionally push one more code after a terminal state;
		// the classifier stays authoritative, so apply it anyway
		log.Printf("Status update %q for terminal shipment %s", request.StatusCode, shipment.TrackingCode)
	}

	if err := s.applyRawCode(ctx, shipment, request.StatusCode, request.Description); err != nil {
		return nil, err
	}

	updated, err := s.shipmentRepo.GetByID(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}
	response := s.decorate(updated)
	return &response, nil
}

// RefreshStatuses polls the carrier for every open shipment and applies
// any status change. Individual failures are logged and skipped so one
// bad shipment does not stall the sweep.
func (s *fulfillmentService) RefreshStatuses(ctx context.Context) error {
	open, err := s.shipmentRepo.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open shipments: %w", err)
	}

	clients := make(map[uuid.UUID]carriers.Carrier)
	for _, shipment := range open {
		carrier, ok := clients[shipment.CompanyID]
		if !ok {
			company, err := s.companyRepo.GetByID(ctx, shipment.CompanyID)
			if err != nil || company == nil {
				log.Printf("Skipping shipment %s: company %s unavailable", shipment.TrackingCode, shipment.CompanyID)
				continue
			}
			carrier, err = s.carrierFactory.CreateCarrier(*company)
			if err != nil {
				log.Printf("Skipping shipment %s: %v", shipment.TrackingCode, err)
				continue
			}
			clients[shipment.CompanyID] = carrier
		}

		code, err := carrier.Status(ctx, shipment.TrackingCode)
		if err != nil {
			log.Printf("Status poll failed for %s: %v", shipment.TrackingCode, err)
			continue
		}
		if code == shipment.FestStatusCode {
			continue
		}
		if err := s.applyRawCode(ctx, shipment, code, ""); err != nil {
			log.Printf("Failed to apply status %q to %s: %v", code, shipment.TrackingCode, err)
		}
	}
	return nil
}

// applyRawCode classifies a raw carrier code, persists the transition
// and the movement record, and emits the matching events
func (s *fulfillmentService) applyRawCode(ctx context.Context, shipment *models.Shipment, code, description string) error {
	status := engine.ClassifyStatus(code)
	problematic := engine.IsProblematic(code)
	movedAt := time.Now().UTC()

	if err := s.shipmentRepo.UpdateStatus(ctx, shipment.ID, status, code, problematic, movedAt); err != nil {
		return fmt.Errorf("failed to update shipment status: %w", err)
	}

	movement := &models.ShipmentMovement{
		ShipmentID:  shipment.ID,
		StatusCode:  code,
		Status:      status,
		Description: description,
		Timestamp:   movedAt,
	}
	if err := s.shipmentRepo.AddMovement(ctx, movement); err != nil {
		return fmt.Errorf("failed to record movement: %w", err)
	}

	if status != shipment.Status {
		s.publisher.PublishStatusChanged(shipment.ID.String(), shipment.TrackingCode, string(status), code)
	}
	if problematic && !shipment.IsProblematic {
		s.publisher.PublishProblemFlagged(shipment.ID.String(), shipment.TrackingCode, string(status), code)
	}
	return nil
}

// resolveOption loads the active configuration and resolves a concrete
// (company, sub-carrier) pair
func (s *fulfillmentService) resolveOption(ctx context.Context, companyID uuid.UUID, subCarrierCode string) (engine.CarrierOption, error) {
	companies, err := s.companyRepo.ListActive(ctx)
	if err != nil {
		return engine.CarrierOption{}, fmt.Errorf("failed to load carrier configuration: %w", err)
	}
	option, ok := engine.FindOption(companies, companyID.String(), subCarrierCode)
	if !ok {
		return engine.CarrierOption{}, fmt.Errorf("%w: company %s sub-carrier %q", ErrCarrierNotFound, companyID, subCarrierCode)
	}
	return option, nil
}

func (s *fulfillmentService) decorate(shipment *models.Shipment) models.ShipmentResponse {
	return models.ShipmentResponse{
		Shipment: *shipment,
		IsStuck:  engine.IsStuck(shipment.Status, shipment.LastMovementDate, time.Now().UTC(), s.stuckThreshold),
	}
}
