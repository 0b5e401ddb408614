package model

// OrderStatus is the order lifecycle state.
//
// The lifecycle is ordered: PENDING → CONFIRMED → PREPARING →
// OUT_FOR_DELIVERY, terminating in DELIVERED or CANCELLED.
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// IsTerminal reports whether the status ends the lifecycle.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsActive reports whether the order is still in flight.
func (s OrderStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusOutForDelivery:
		return true
	}
	return false
}

// DeliveryStatus is the state of the delivery sub-record.
type DeliveryStatus string

const (
	DeliveryScheduled DeliveryStatus = "SCHEDULED"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
)

// Delivery is the delivery sub-record attached to an order once a driver is
// assigned. Live DELIVERY_UPDATE patches replace it wholesale.
type Delivery struct {
	ID             int64          `json:"id"`
	OrderID        int64          `json:"orderId"`
	Status         DeliveryStatus `json:"status"`
	AssignedDriver string         `json:"assignedDriver,omitempty"`
	EtaSeconds     int            `json:"etaSeconds,omitempty"`
	ScheduledAt    string         `json:"scheduledAt,omitempty"`
	UpdatedAt      string         `json:"updatedAt,omitempty"`
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	MenuItemID   int64   `json:"menuItemId"`
	MenuItemName string  `json:"menuItemName,omitempty"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price,omitempty"`
	Subtotal     float64 `json:"subtotal,omitempty"`
}

// Order is the backend's order snapshot.
type Order struct {
	ID                  int64       `json:"id"`
	CustomerID          int64       `json:"customerId,omitempty"`
	CustomerName        string      `json:"customerName,omitempty"`
	RestaurantID        int64       `json:"restaurantId"`
	RestaurantName      string      `json:"restaurantName,omitempty"`
	Items               []OrderItem `json:"items,omitempty"`
	DeliveryAddress     *Address    `json:"deliveryAddress,omitempty"`
	TotalAmount         float64     `json:"totalAmount,omitempty"`
	DeliveryFee         float64     `json:"deliveryFee,omitempty"`
	TaxAmount           float64     `json:"taxAmount,omitempty"`
	Status              OrderStatus `json:"status"`
	PaymentMethod       string      `json:"paymentMethod,omitempty"`
	PaymentStatus       string      `json:"paymentStatus,omitempty"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
	CreatedAt           string      `json:"createdAt,omitempty"`
	DeliveredAt         string      `json:"deliveredAt,omitempty"`
	Delivery            *Delivery   `json:"delivery,omitempty"`
}

// CreateOrderItem is one requested line in an order placement.
type CreateOrderItem struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
}

// CreateOrderRequest is the order placement payload.
type CreateOrderRequest struct {
	RestaurantID        int64             `json:"restaurantId"`
	DeliveryAddressID   int64             `json:"deliveryAddressId"`
	Items               []CreateOrderItem `json:"items"`
	PaymentMethod       string            `json:"paymentMethod"`
	SpecialInstructions string            `json:"specialInstructions,omitempty"`
}

// CartLine is one distinct catalog item and its requested quantity in the
// pending order. Identity is the catalog item id.
type CartLine struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Category     string  `json:"category,omitempty"`
	RestaurantID int64   `json:"restaurantId"`
	Quantity     int     `json:"quantity"`
}
