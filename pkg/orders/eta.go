package orders

import "github.com/palanikalyan/K-MATO/pkg/model"

// Per-status fallback estimates, in minutes, used when the delivery record
// carries no ETA of its own.
var statusEstimates = map[model.OrderStatus]int{
	model.StatusPending:        30,
	model.StatusConfirmed:      25,
	model.StatusPreparing:      15,
	model.StatusOutForDelivery: 10,
}

// EstimatedMinutes returns the remaining delivery estimate for an order.
// A live ETA from the delivery record wins over the status-based fallback.
func EstimatedMinutes(o model.Order) int {
	if o.Status.IsTerminal() {
		return 0
	}
	if o.Delivery != nil && o.Delivery.EtaSeconds > 0 {
		return (o.Delivery.EtaSeconds + 59) / 60
	}
	if est, ok := statusEstimates[o.Status]; ok {
		return est
	}
	return 20
}

// CanCancel reports whether the customer may still cancel the order.
// Cancellation closes once the kitchen starts preparing.
func CanCancel(o model.Order) bool {
	return o.Status == model.StatusPending || o.Status == model.StatusConfirmed
}
