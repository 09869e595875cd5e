package carriers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping-engine/internal/carriers"
	"shipping-engine/internal/engine"
	"shipping-engine/internal/models"
)

func codOrder() models.Order {
	return models.Order{
		OrderNumber:   "ORD-1001",
		PaymentMethod: models.PaymentCashOnDoor,
		TotalAmount:   349.9,
		CustomerName:  "Ayşe Yılmaz",
		Telephone:     "0532 123 45 67",
		City:          "İstanbul",
		District:      "Kadıköy",
		Address:       "Moda Cad. No:12",
		Summary:       "2x t-shirt",
	}
}

func capableSubCarrier() models.SubCarrier {
	return models.SubCarrier{
		Code:                  "ARAS",
		BranchCode:            "IST-01",
		IsActive:              true,
		IsCashOnDoorAvailable: true,
		IsCardOnDoorAvailable: true,
	}
}

func TestBuildConsignmentPayload_CashOnDoor(t *testing.T) {
	payload, err := carriers.BuildConsignmentPayload(codOrder(), capableSubCarrier(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Ayşe Yılmaz", payload.Customer)
	assert.Equal(t, "İstanbul", payload.ProvinceName)
	assert.Equal(t, "Kadıköy", payload.CountyName)
	assert.Equal(t, "Kadıköy", payload.District) // carrier schema wants the district twice
	assert.Equal(t, "5321234567", payload.Telephone)
	assert.Equal(t, "IST-01", payload.BranchCode)
	assert.Equal(t, carriers.ConsignmentTypeParcel, payload.ConsignmentTypeID)
	assert.Equal(t, carriers.AmountTypeCashOnDoor, payload.AmountTypeID)
	assert.Equal(t, "349.90", payload.Amount)
	assert.Equal(t, "ORD-1001", payload.OrderNumber)
	assert.Equal(t, 1, payload.Quantity)
}

func TestBuildConsignmentPayload_CardOnDoor(t *testing.T) {
	order := codOrder()
	order.PaymentMethod = models.PaymentCardOnDoor

	payload, err := carriers.BuildConsignmentPayload(order, capableSubCarrier(), nil)
	require.NoError(t, err)

	assert.Equal(t, carriers.AmountTypeCardOnDoor, payload.AmountTypeID)
	assert.Equal(t, "349.90", payload.Amount)
}

func TestBuildConsignmentPayload_PrepaidHasZeroAmount(t *testing.T) {
	for _, method := range []models.PaymentMethod{models.PaymentWire, models.PaymentOnline} {
		order := codOrder()
		order.PaymentMethod = method

		payload, err := carriers.BuildConsignmentPayload(order, capableSubCarrier(), nil)
		require.NoError(t, err)

		assert.Equal(t, carriers.AmountTypeSenderPays, payload.AmountTypeID)
		assert.Equal(t, "0.00", payload.Amount)
	}
}

func TestBuildConsignmentPayload_CodOverride(t *testing.T) {
	override := 200.0

	payload, err := carriers.BuildConsignmentPayload(codOrder(), capableSubCarrier(), &override)
	require.NoError(t, err)
	assert.Equal(t, "200.00", payload.Amount)
}

func TestBuildConsignmentPayload_OverrideIgnoredForPrepaid(t *testing.T) {
	order := codOrder()
	order.PaymentMethod = models.PaymentOnline
	override := 200.0

	payload, err := carriers.BuildConsignmentPayload(order, capableSubCarrier(), &override)
	require.NoError(t, err)
	assert.Equal(t, "0.00", payload.Amount)
}

func TestBuildConsignmentPayload_IneligibleCarrierRejected(t *testing.T) {
	sc := capableSubCarrier()
	sc.IsCashOnDoorAvailable = false

	_, err := carriers.BuildConsignmentPayload(codOrder(), sc, nil)
	require.Error(t, err)

	var ineligible *engine.IneligibleCarrierError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, "ARAS", ineligible.SubCarrier)
}

func TestBuildConsignmentPayload_AmountAlwaysTwoDecimals(t *testing.T) {
	order := codOrder()
	order.TotalAmount = 100

	payload, err := carriers.BuildConsignmentPayload(order, capableSubCarrier(), nil)
	require.NoError(t, err)
	assert.Equal(t, "100.00", payload.Amount)
}

func TestCleanPhoneNumber(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"5321234567", "5321234567"},
		{"05321234567", "5321234567"},
		{"905321234567", "5321234567"},
		{"+90 532 123 45 67", "5321234567"},
		{"0532-123-45-67", "5321234567"},
		{"12345", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, carriers.CleanPhoneNumber(tc.in), "input %q", tc.in)
	}
}
