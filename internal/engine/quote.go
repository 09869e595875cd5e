package engine

import (
	"fmt"

	"shipping-engine/internal/models"
)

// QuoteInput carries everything needed to price one shipment through a
// selected sub-carrier. CodAmount is 0 for prepaid orders.
type QuoteInput struct {
	SubCarrier    models.SubCarrier
	Desi          float64
	CodAmount     float64
	PaymentMethod models.PaymentMethod

	// DirectPricing marks the legacy DIRECT path where the desi tier is
	// itself the full transport cost and no fixed fee applies
	DirectPricing bool
}

// CalculateQuote computes the total shipping cost and its display
// breakdown for one eligible sub-carrier.
//
// A codAmount of 0 fully skips the collection and card commission lines
// rather than emitting zero rows, so the breakdown reads cleanly.
func CalculateQuote(in QuoteInput) (models.Quote, error) {
	if in.Desi < 0 {
		return models.Quote{}, fmt.Errorf("desi must not be negative, got %.2f", in.Desi)
	}
	if in.CodAmount < 0 {
		return models.Quote{}, fmt.Errorf("cod amount must not be negative, got %.2f", in.CodAmount)
	}

	transport, err := transportCost(in.SubCarrier.DesiRanges, in.Desi)
	if err != nil {
		return models.Quote{}, err
	}

	quote := models.Quote{
		Breakdown: []models.QuoteLine{{Label: models.QuoteLineTransport, Amount: transport}},
	}

	if in.CodAmount > 0 {
		commission, err := collectionCommission(in.SubCarrier.CodRanges, in.CodAmount)
		if err != nil {
			return models.Quote{}, err
		}
		quote.Breakdown = append(quote.Breakdown, models.QuoteLine{
			Label:  models.QuoteLineCommission,
			Amount: commission,
		})

		if in.PaymentMethod == models.PaymentCardOnDoor {
			quote.Breakdown = append(quote.Breakdown, models.QuoteLine{
				Label:  models.QuoteLineCardFee,
				Amount: in.CodAmount * in.SubCarrier.CardCommission,
			})
		}
	}

	if !in.DirectPricing && in.SubCarrier.FixedPrice > 0 {
		quote.Breakdown = append(quote.Breakdown, models.QuoteLine{
			Label:  models.QuoteLineFixedFee,
			Amount: in.SubCarrier.FixedPrice,
		})
	}

	for _, line := range quote.Breakdown {
		quote.TotalCost += line.Amount
	}
	return quote, nil
}

// transportCost picks the first tier covering the parcel, scanning the
// ascending list.
func transportCost(ranges models.DesiRangeList, desi float64) (float64, error) {
	for _, r := range ranges {
		if r.MaxDesi >= desi {
			return r.Price, nil
		}
	}
	return 0, fmt.Errorf("desi %.2f: %w", desi, ErrNoApplicableTier)
}

// collectionCommission picks the tier containing the collectible amount.
func collectionCommission(ranges models.CodRangeList, amount float64) (float64, error) {
	for _, r := range ranges {
		if r.Contains(amount) {
			return r.Price, nil
		}
	}
	return 0, fmt.Errorf("cod amount %.2f: %w", amount, ErrNoApplicableTier)
}

// EstimateProfit surfaces the carrier margin on an order to
// administrators. Sign is preserved: a negative profit is a valid,
// displayable result.
func EstimateProfit(quote models.Quote, revenue float64) float64 {
	return revenue - quote.TotalCost
}
