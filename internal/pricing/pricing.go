// Package pricing holds the quote arithmetic for bookings. Everything here
// is pure so the booking service can re-price a stay at payment time with
// the exact rules used when the quote was first shown.
package pricing

import "time"

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// ServiceLine is one add-on service on a booking, priced at the unit price
// captured when the line was created.
type ServiceLine struct {
	UnitPrice float64
	Quantity  int
}

// Discount describes the promotion applied to a quote. Value is a percentage
// for DiscountTypePercentage and an absolute amount for DiscountTypeFixed.
type Discount struct {
	Type  DiscountType
	Value float64
}

// Quote keeps all three figures so statements can show the discount line
// even after the promotion itself is gone.
type Quote struct {
	Subtotal float64
	Discount float64
	Total    float64
}

// Nights counts the nights in a half-open [checkIn, checkOut) stay of
// date-only values. A same-day pair counts zero nights.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// ComputeQuote prices a stay: nights at the room's base price plus every
// service line, minus the discount. The discount never exceeds the subtotal
// and the total never drops below zero.
func ComputeQuote(basePrice float64, nights int, lines []ServiceLine, discount *Discount) Quote {
	subtotal := basePrice * float64(nights)
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	var off float64
	if discount != nil {
		switch discount.Type {
		case DiscountTypePercentage:
			off = subtotal * discount.Value / 100
		case DiscountTypeFixed:
			off = discount.Value
		}
		if off < 0 {
			off = 0
		}
		if off > subtotal {
			off = subtotal
		}
	}

	return Quote{
		Subtotal: subtotal,
		Discount: off,
		Total:    subtotal - off,
	}
}
