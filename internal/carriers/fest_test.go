package carriers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping-engine/internal/carriers"
)

func festPayload() carriers.ConsignmentPayload {
	return carriers.ConsignmentPayload{
		Customer:          "Ayşe Yılmaz",
		ProvinceName:      "İstanbul",
		CountyName:        "Kadıköy",
		District:          "Kadıköy",
		Address:           "Moda Cad. No:12",
		Telephone:         "5321234567",
		BranchCode:        "IST-01",
		ConsignmentTypeID: carriers.ConsignmentTypeParcel,
		AmountTypeID:      carriers.AmountTypeCashOnDoor,
		Amount:            "349.90",
		OrderNumber:       "ORD-1001",
		Quantity:          1,
	}
}

func TestFestSubmit_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/consignments", r.URL.Path)
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))

		var got carriers.ConsignmentPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "ORD-1001", got.OrderNumber)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"barcode": "FK123456789",
		})
	}))
	defer server.Close()

	carrier := carriers.NewFestCarrier("FEST", carriers.Config{APIKey: "test-key", BaseURL: server.URL})

	barcode, err := carrier.Submit(context.Background(), festPayload())
	require.NoError(t, err)
	assert.Equal(t, "FK123456789", barcode)
}

func TestFestSubmit_ValidationRejectionIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success": false, "message": "telephone is invalid"}`))
	}))
	defer server.Close()

	carrier := carriers.NewFestCarrier("FEST", carriers.Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := carrier.Submit(context.Background(), festPayload())
	require.Error(t, err)

	var submissionErr *carriers.SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	assert.Equal(t, http.StatusUnprocessableEntity, submissionErr.StatusCode)
	assert.False(t, submissionErr.Transient)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFestSubmit_ServerErrorIsRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"barcode": "FK987654321",
		})
	}))
	defer server.Close()

	carrier := carriers.NewFestCarrier("FEST", carriers.Config{APIKey: "test-key", BaseURL: server.URL})

	barcode, err := carrier.Submit(context.Background(), festPayload())
	require.NoError(t, err)
	assert.Equal(t, "FK987654321", barcode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFestSubmit_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	carrier := carriers.NewFestCarrier("FEST", carriers.Config{APIKey: "test-key", BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := carrier.Submit(ctx, festPayload())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/consignments/FK123456789/status", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]string{
			"barcode":     "FK123456789",
			"status_code": "42",
		})
	}))
	defer server.Close()

	carrier := carriers.NewFestCarrier("FEST", carriers.Config{APIKey: "test-key", BaseURL: server.URL})

	code, err := carrier.Status(context.Background(), "FK123456789")
	require.NoError(t, err)
	assert.Equal(t, "42", code)
}

func TestFestStatus_NonOKSurfacesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "unknown barcode"}`))
	}))
	defer server.Close()

	carrier := carriers.NewFestCarrier("FEST", carriers.Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := carrier.Status(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
