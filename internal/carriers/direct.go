package carriers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// DirectCarrier implements the Carrier interface for carriers with their
// own API (the legacy integration path). Pricing for these comes from
// company-level pricing rules; the wire conversation is the same
// consignment payload without a branch code.
type DirectCarrier struct {
	code       string
	config     Config
	httpClient *http.Client
}

// NewDirectCarrier creates a new direct carrier instance
func NewDirectCarrier(code string, config Config) *DirectCarrier {
	return &DirectCarrier{
		code:   code,
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the company code of the integration
func (d *DirectCarrier) Name() string {
	return d.code
}

// Submit sends a consignment to the carrier and returns the tracking
// code from the response.
func (d *DirectCarrier) Submit(ctx context.Context, payload ConsignmentPayload) (string, error) {
	endpoint := fmt.Sprintf("%s/consignment", d.config.BaseURL)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", d.config.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", &SubmissionError{Message: err.Error(), Transient: true}
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", &SubmissionError{
			StatusCode: resp.StatusCode,
			Message:    string(bodyBytes),
			Transient:  resp.StatusCode >= 500,
		}
	}

	var createResp struct {
		TrackingCode string `json:"tracking_code"`
		Message      string `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &createResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if createResp.TrackingCode == "" {
		return "", &SubmissionError{StatusCode: resp.StatusCode, Message: createResp.Message}
	}

	log.Printf("%s: consignment created for order %s - tracking %s", d.code, payload.OrderNumber, createResp.TrackingCode)
	return createResp.TrackingCode, nil
}

// Status fetches the raw status code for a tracking code
func (d *DirectCarrier) Status(ctx context.Context, trackingCode string) (string, error) {
	endpoint := fmt.Sprintf("%s/consignment/%s", d.config.BaseURL, trackingCode)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", d.config.APIKey))

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status API returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var statusResp struct {
		StatusCode string `json:"status_code"`
	}
	if err := json.Unmarshal(bodyBytes, &statusResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return statusResp.StatusCode, nil
}
