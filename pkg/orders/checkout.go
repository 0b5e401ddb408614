package orders

import (
	"context"
	"errors"
	"log/slog"

	"github.com/palanikalyan/K-MATO/pkg/cart"
	"github.com/palanikalyan/K-MATO/pkg/model"
	"github.com/palanikalyan/K-MATO/pkg/pricing"
)

// Checkout guard errors.
var (
	ErrNotLoggedIn = errors.New("checkout requires a logged-in user")
	ErrEmptyCart   = errors.New("cart is empty")
	ErrNoAddress   = errors.New("a delivery address is required")
	ErrMixedCart   = errors.New("cart spans more than one restaurant")
)

// CheckoutAPI is the slice of the remote API order placement needs.
type CheckoutAPI interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
}

// Authenticator reports whether a user is signed in.
type Authenticator interface {
	IsLoggedIn() bool
}

// Checkout turns the cart into a placed order.
type Checkout struct {
	cart   *cart.Store
	auth   Authenticator
	api    CheckoutAPI
	fees   pricing.Fees
	logger *slog.Logger
}

// NewCheckout creates a checkout over the given cart, auth source and API.
func NewCheckout(c *cart.Store, auth Authenticator, api CheckoutAPI, fees pricing.Fees, logger *slog.Logger) *Checkout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checkout{
		cart:   c,
		auth:   auth,
		api:    api,
		fees:   fees,
		logger: logger.With("component", "checkout"),
	}
}

// Quote prices the current cart contents.
func (c *Checkout) Quote() pricing.Quote {
	return c.fees.Quote(c.cart.Total())
}

// PlaceOrder validates the cart, submits it as an order and, only once the
// backend accepts it, empties the cart. On any failure the cart is left
// exactly as it was.
func (c *Checkout) PlaceOrder(ctx context.Context, addressID int64, paymentMethod, instructions string) (*model.Order, error) {
	if c.auth != nil && !c.auth.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}

	items := c.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if addressID == 0 {
		return nil, ErrNoAddress
	}
	restaurantID, ok := c.cart.RestaurantID()
	if !ok {
		return nil, ErrMixedCart
	}

	req := model.CreateOrderRequest{
		RestaurantID:        restaurantID,
		DeliveryAddressID:   addressID,
		PaymentMethod:       paymentMethod,
		SpecialInstructions: instructions,
	}
	for _, line := range items {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		req.Items = append(req.Items, model.CreateOrderItem{
			MenuItemID: line.ID,
			Quantity:   qty,
		})
	}

	order, err := c.api.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	c.cart.Clear()
	c.logger.Info("order placed", "order_id", order.ID, "restaurant_id", restaurantID, "total", c.fees.Quote(totalOf(items)).GrandTotal)
	return order, nil
}

func totalOf(items []model.CartLine) float64 {
	var sum float64
	for _, line := range items {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		sum += line.Price * float64(qty)
	}
	return sum
}
