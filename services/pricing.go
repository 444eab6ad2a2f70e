package services

import (
	"github.com/restrolabs/Restro_Ordering_Backend/models"
)

// Fee rules per channel. All amounts are integer minor currency units.
const (
	serviceFeePercent = 10
	deliveryFeeMinor  = 500
)

// ItemTotal is the line total of one item: quantity times unit price plus
// the selected option surcharges.
func ItemTotal(item models.OrderItem) int64 {
	unit := item.Unit_price
	for _, opt := range item.Options {
		unit += opt.Price
	}
	return unit * item.Quantity
}

// ComputeAmounts prices an order from its line items and channel. Fees that
// do not apply to the channel are left absent rather than written as zero.
// Discounts start at zero; ApplyDiscount adjusts them after coupon
// validation.
func ComputeAmounts(items []models.OrderItem, channel string) models.Amounts {
	var subtotal int64
	for _, item := range items {
		subtotal += ItemTotal(item)
	}

	amounts := models.Amounts{Subtotal: subtotal}
	switch channel {
	case models.ChannelDineIn:
		fee := percentOf(subtotal, serviceFeePercent)
		amounts.Fees.Service = &fee
	case models.ChannelDelivery:
		fee := int64(deliveryFeeMinor)
		amounts.Fees.Delivery = &fee
	}

	amounts.Total = subtotal + feeSum(amounts.Fees) - amounts.Discounts
	return amounts
}

// ApplyDiscount sets the discount on already-computed amounts, capped at the
// subtotal so the total can never go negative.
func ApplyDiscount(amounts models.Amounts, discount int64) models.Amounts {
	if discount < 0 {
		discount = 0
	}
	if discount > amounts.Subtotal {
		discount = amounts.Subtotal
	}
	amounts.Discounts = discount
	amounts.Total = amounts.Subtotal + feeSum(amounts.Fees) - discount
	return amounts
}

// percentOf computes pct percent of amount, rounding half up. Integer-only
// so no floating point error can accumulate.
func percentOf(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}

func feeSum(fees models.Fees) int64 {
	var sum int64
	if fees.Service != nil {
		sum += *fees.Service
	}
	if fees.Delivery != nil {
		sum += *fees.Delivery
	}
	return sum
}
