package carriers

import (
	"strconv"

	"shipping-engine/internal/engine"
	"shipping-engine/internal/models"
)

// ConsignmentPayload is the carrier-bound wire structure. It is derived,
// ephemeral and never stored; only the returned tracking code persists.
type ConsignmentPayload struct {
	Customer          string `json:"customer"`
	ProvinceName      string `json:"province_name"`
	CountyName        string `json:"county_name"`
	District          string `json:"district"`
	Address           string `json:"address"`
	Telephone         string `json:"telephone"`
	BranchCode        string `json:"branch_code"`
	ConsignmentTypeID int    `json:"consignment_type_id"`
	AmountTypeID      int    `json:"amount_type_id"`
	Amount            string `json:"amount"` // 2 decimals, as the wire format requires
	OrderNumber       string `json:"order_number"`
	Quantity          int    `json:"quantity"`
	Summary           string `json:"summary"`
}

// BuildConsignmentPayload translates an order and a chosen sub-carrier
// into the carrier wire format.
//
// The amount type follows the payment method: cash-on-door for COD,
// card-on-door for CC_ON_DOOR, sender-pays with zero collectible amount
// for everything else. codOverride, when non-nil, replaces the order
// total as the collectible amount.
//
// District is copied into both the county and neighborhood slots: the
// carrier schema conflates the two, and it expects the same value in
// each. Multi-package orders are out of scope, so quantity is always 1.
func BuildConsignmentPayload(order models.Order, sub models.SubCarrier, codOverride *float64) (ConsignmentPayload, error) {
	if !engine.SupportsPayment(sub, order.PaymentMethod) {
		return ConsignmentPayload{}, &engine.IneligibleCarrierError{
			SubCarrier:    sub.Code,
			PaymentMethod: order.PaymentMethod,
		}
	}

	amountType := AmountTypeSenderPays
	amount := 0.0
	switch order.PaymentMethod {
	case models.PaymentCashOnDoor:
		amountType = AmountTypeCashOnDoor
		amount = order.TotalAmount
	case models.PaymentCardOnDoor:
		amountType = AmountTypeCardOnDoor
		amount = order.TotalAmount
	}
	if codOverride != nil && order.PaymentMethod.CollectsOnDelivery() {
		amount = *codOverride
	}

	return ConsignmentPayload{
		Customer:          order.CustomerName,
		ProvinceName:      order.City,
		CountyName:        order.District,
		District:          order.District,
		Address:           order.Address,
		Telephone:         CleanPhoneNumber(order.Telephone),
		BranchCode:        sub.BranchCode,
		ConsignmentTypeID: ConsignmentTypeParcel,
		AmountTypeID:      amountType,
		Amount:            strconv.FormatFloat(amount, 'f', 2, 64),
		OrderNumber:       order.OrderNumber,
		Quantity:          1,
		Summary:           order.Summary,
	}, nil
}
