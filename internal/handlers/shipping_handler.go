package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"shipping-engine/internal/engine"
	"shipping-engine/internal/models"
	"shipping-engine/internal/services"
)

// ShippingHandler handles HTTP requests for quoting and fulfillment
type ShippingHandler struct {
	fulfillment   services.FulfillmentService
	webhookSecret string
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(fulfillment services.FulfillmentService, webhookSecret string) *ShippingHandler {
	return &ShippingHandler{
		fulfillment:   fulfillment,
		webhookSecret: webhookSecret,
	}
}

// ListEligibleCarriers handles POST /api/eligibility
func (h *ShippingHandler) ListEligibleCarriers(c *gin.Context) {
	var request models.EligibilityRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	options, err := h.fulfillment.ListEligibleCarriers(c.Request.Context(), request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list carriers",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    options,
	})
}

// QuoteShipment handles POST /api/quotes
func (h *ShippingHandler) QuoteShipment(c *gin.Context) {
	var request models.QuoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	response, err := h.fulfillment.QuoteShipment(c.Request.Context(), request)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrCarrierNotFound):
			status = http.StatusNotFound
		case errors.Is(err, engine.ErrNoApplicableTier):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "Failed to quote shipment",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SubmitConsignment handles POST /api/consignments
func (h *ShippingHandler) SubmitConsignment(c *gin.Context) {
	var request models.ConsignmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	shipment, err := h.fulfillment.SubmitConsignment(c.Request.Context(), request)
	if err != nil {
		var ruralErr *services.RuralMismatchError
		var ineligibleErr *engine.IneligibleCarrierError

		status := http.StatusInternalServerError
		title := "Failed to submit consignment"
		switch {
		case errors.Is(err, services.ErrCarrierNotFound):
			status = http.StatusNotFound
			title = "Carrier not found"
		case errors.As(err, &ruralErr):
			status = http.StatusConflict
			title = "Rural address warning"
		case errors.As(err, &ineligibleErr):
			status = http.StatusUnprocessableEntity
			title = "Carrier cannot collect for this payment method"
		}
		c.JSON(status, models.ErrorResponse{
			Error:   title,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    shipment,
		Message: stringPtr("Consignment submitted successfully"),
	})
}

// GetShipment handles GET /api/shipments/:id
func (h *ShippingHandler) GetShipment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid shipment ID",
			Message: "Shipment ID must be a valid UUID",
		})
		return
	}

	shipment, err := h.fulfillment.GetShipment(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrShipmentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "Shipment not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    shipment,
	})
}

// ListShipments handles GET /api/shipments
func (h *ShippingHandler) ListShipments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	response, err := h.fulfillment.ListShipments(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list shipments",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListStuckShipments handles GET /api/shipments/stuck
func (h *ShippingHandler) ListStuckShipments(c *gin.Context) {
	stuck, err := h.fulfillment.ListStuckShipments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list stuck shipments",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    stuck,
	})
}

// TrackShipment handles GET /api/shipments/track/:trackingCode
func (h *ShippingHandler) TrackShipment(c *gin.Context) {
	trackingCode := c.Param("trackingCode")

	shipment, err := h.fulfillment.GetShipmentByTracking(c.Request.Context(), trackingCode)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrShipmentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "Shipment not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    shipment,
	})
}

// UpdateShipmentStatus handles PUT /api/shipments/:id/status
func (h *ShippingHandler) UpdateShipmentStatus(c *gin.Context) {
	var request models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	shipment, err := h.fulfillment.ApplyStatusUpdate(c.Request.Context(), request)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrShipmentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "Failed to update shipment status",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    shipment,
		Message: stringPtr("Shipment status updated successfully"),
	})
}

// festWebhookPayload represents the carrier status webhook payload
type festWebhookPayload struct {
	Barcode     string `json:"barcode"`
	StatusCode  string `json:"status_code"`
	Description string `json:"description"`
}

// FestWebhook handles POST /webhooks/fest
// The carrier pushes raw status codes as shipments move.
func (h *ShippingHandler) FestWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Failed to read request body",
			Message: err.Error(),
		})
		return
	}

	signature := c.GetHeader("X-Fest-Signature")
	if !verifyWebhookSignature(body, signature, h.webhookSecret) {
		log.Printf("Fest webhook: signature verification failed")
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "Signature verification failed",
			Message: "Invalid webhook signature",
		})
		return
	}

	var payload festWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid webhook payload",
			Message: err.Error(),
		})
		return
	}
	if payload.Barcode == "" || payload.StatusCode == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid webhook payload",
			Message: "barcode and status_code are required",
		})
		return
	}

	_, err = h.fulfillment.ApplyStatusUpdate(c.Request.Context(), models.StatusUpdateRequest{
		TrackingCode: payload.Barcode,
		StatusCode:   payload.StatusCode,
		Description:  payload.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrShipmentNotFound) {
			// Unknown barcodes are acknowledged so the carrier stops
			// retrying deliveries for shipments we never created
			log.Printf("Fest webhook: unknown barcode %s", payload.Barcode)
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to apply status update",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Webhook processed successfully",
	})
}

// HealthCheck handles GET /health
func (h *ShippingHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shipping-engine",
	})
}

// verifyWebhookSignature verifies the HMAC-SHA256 signature
func verifyWebhookSignature(body []byte, signature, secret string) bool {
	if secret == "" {
		return true // Skip verification if no secret configured
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedSignature := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// stringPtr returns a pointer to a string
func stringPtr(s string) *string {
	return &s
}
