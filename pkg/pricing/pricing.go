// Package pricing is the single source of the checkout total derivation.
//
// The cart summary and the checkout screen both show a grand total; the web
// client computed it twice with copy-pasted constants. Here the formula
// lives once, so the two views cannot disagree.
package pricing

// Default fee schedule, in the backend's currency unit.
const (
	DefaultDeliveryFee = 40
	DefaultPlatformFee = 5
	DefaultTaxRate     = 0.05
)

// Fees is a fee schedule. Tax applies to the subtotal only, not to fees.
type Fees struct {
	DeliveryFee float64
	PlatformFee float64
	TaxRate     float64
}

// DefaultFees returns the standard schedule.
func DefaultFees() Fees {
	return Fees{
		DeliveryFee: DefaultDeliveryFee,
		PlatformFee: DefaultPlatformFee,
		TaxRate:     DefaultTaxRate,
	}
}

// Quote is an itemized checkout total.
type Quote struct {
	Subtotal    float64
	DeliveryFee float64
	PlatformFee float64
	Tax         float64
	GrandTotal  float64
}

// Quote derives the itemized total for a cart subtotal:
//
//	grandTotal = subtotal + deliveryFee + platformFee + subtotal×taxRate
func (f Fees) Quote(subtotal float64) Quote {
	tax := subtotal * f.TaxRate
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: f.DeliveryFee,
		PlatformFee: f.PlatformFee,
		Tax:         tax,
		GrandTotal:  subtotal + f.DeliveryFee + f.PlatformFee + tax,
	}
}
