package models

// PaymentMethod represents how the customer pays for an order
type PaymentMethod string

const (
	PaymentCashOnDoor PaymentMethod = "COD"
	PaymentCardOnDoor PaymentMethod = "CC_ON_DOOR"
	PaymentWire       PaymentMethod = "WIRE"
	PaymentOnline     PaymentMethod = "ONLINE"
)

// CollectsOnDelivery reports whether the courier collects money at the door.
func (m PaymentMethod) CollectsOnDelivery() bool {
	return m == PaymentCashOnDoor || m == PaymentCardOnDoor
}

// Order is the slice of an order the engine reads. It is owned by the
// order subsystem and never mutated here.
type Order struct {
	OrderNumber   string        `json:"orderNumber"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TotalAmount   float64       `json:"totalAmount"`

	CustomerName string `json:"customerName"`
	Telephone    string `json:"telephone"`
	City         string `json:"city"`
	District     string `json:"district"`
	Address      string `json:"address"`

	// Summary is a short description printed on the consignment slip
	Summary string `json:"summary"`

	IsRural bool `json:"isRural"`
}
