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

	"github.com/sethvargo/go-retry"
)

// FestCarrier implements the Carrier interface for the Fest aggregator.
// Fest multiplexes several physical carriers behind one API; the branch
// code in the payload routes the consignment to the right sub-carrier.
type FestCarrier struct {
	code       string
	config     Config
	httpClient *http.Client
}

// NewFestCarrier creates a new Fest carrier instance
func NewFestCarrier(code string, config Config) *FestCarrier {
	return &FestCarrier{
		code:   code,
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the company code of the integration
func (f *FestCarrier) Name() string {
	return f.code
}

// Submit sends a consignment to Fest and returns the assigned barcode.
// Transient network failures are retried with exponential backoff; Fest
// deduplicates on order_number so a retry after a timeout is safe. A
// carrier-side validation rejection is surfaced immediately, unretried.
// Cancelling the context aborts the submission between attempts and
// mid-request.
func (f *FestCarrier) Submit(ctx context.Context, payload ConsignmentPayload) (string, error) {
	endpoint := fmt.Sprintf("%s/api/consignments", f.config.BaseURL)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	var trackingCode string
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", fmt.Sprintf("Token %s", f.config.APIKey))
		req.Header.Set("Content-Type", "application/json")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return retry.RetryableError(&SubmissionError{Message: err.Error(), Transient: true})
		}
		defer resp.Body.Close()

		bodyBytes, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 500 {
			return retry.RetryableError(&SubmissionError{
				StatusCode: resp.StatusCode,
				Message:    string(bodyBytes),
				Transient:  true,
			})
		}
		if resp.StatusCode >= 400 {
			return &SubmissionError{StatusCode: resp.StatusCode, Message: string(bodyBytes)}
		}

		var createResp struct {
			Success bool   `json:"success"`
			Barcode string `json:"barcode"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &createResp); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		if !createResp.Success || createResp.Barcode == "" {
			return &SubmissionError{StatusCode: resp.StatusCode, Message: createResp.Message}
		}

		trackingCode = createResp.Barcode
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Printf("Fest: consignment created for order %s - barcode %s", payload.OrderNumber, trackingCode)
	return trackingCode, nil
}

// Status fetches the raw two-digit Fest status code for a barcode. The
// code is classified into a lifecycle state by the caller, not here.
func (f *FestCarrier) Status(ctx context.Context, trackingCode string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/consignments/%s/status", f.config.BaseURL, trackingCode)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Token %s", f.config.APIKey))

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status API returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var statusResp struct {
		Barcode    string `json:"barcode"`
		StatusCode string `json:"status_code"`
	}
	if err := json.Unmarshal(bodyBytes, &statusResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return statusResp.StatusCode, nil
}
