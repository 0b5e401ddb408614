package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/palanikalyan/K-MATO/pkg/cart"
	"github.com/palanikalyan/K-MATO/pkg/model"
	"github.com/palanikalyan/K-MATO/pkg/pricing"
	"github.com/palanikalyan/K-MATO/pkg/storage"
)

type fakeCheckoutAPI struct {
	req *model.CreateOrderRequest
	err error
}

func (f *fakeCheckoutAPI) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.req = &req
	return &model.Order{ID: 42, RestaurantID: req.RestaurantID, Status: model.StatusPending}, nil
}

type fakeAuth struct{ loggedIn bool }

func (f fakeAuth) IsLoggedIn() bool { return f.loggedIn }

func newTestCart(t *testing.T) *cart.Store {
	t.Helper()
	return cart.New(storage.NewMemoryStore())
}

func TestPlaceOrderRequiresLogin(t *testing.T) {
	c := newTestCart(t)
	c.AddItem(model.CartLine{ID: 1, Price: 100, RestaurantID: 9}, 1)
	co := NewCheckout(c, fakeAuth{loggedIn: false}, &fakeCheckoutAPI{}, pricing.DefaultFees(), nil)

	if _, err := co.PlaceOrder(context.Background(), 5, "CARD", ""); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("err = %v, want ErrNotLoggedIn", err)
	}
}

func TestPlaceOrderRequiresItems(t *testing.T) {
	co := NewCheckout(newTestCart(t), fakeAuth{loggedIn: true}, &fakeCheckoutAPI{}, pricing.DefaultFees(), nil)

	if _, err := co.PlaceOrder(context.Background(), 5, "CARD", ""); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}

func TestPlaceOrderRequiresAddress(t *testing.T) {
	c := newTestCart(t)
	c.AddItem(model.CartLine{ID: 1, Price: 100, RestaurantID: 9}, 1)
	co := NewCheckout(c, fakeAuth{loggedIn: true}, &fakeCheckoutAPI{}, pricing.DefaultFees(), nil)

	if _, err := co.PlaceOrder(context.Background(), 0, "CARD", ""); !errors.Is(err, ErrNoAddress) {
		t.Fatalf("err = %v, want ErrNoAddress", err)
	}
}

func TestPlaceOrderRejectsMixedCart(t *testing.T) {
	c := newTestCart(t)
	c.AddItem(model.CartLine{ID: 1, Price: 100, RestaurantID: 9}, 1)
	c.AddItem(model.CartLine{ID: 2, Price: 50, RestaurantID: 10}, 1)
	co := NewCheckout(c, fakeAuth{loggedIn: true}, &fakeCheckoutAPI{}, pricing.DefaultFees(), nil)

	if _, err := co.PlaceOrder(context.Background(), 5, "CARD", ""); !errors.Is(err, ErrMixedCart) {
		t.Fatalf("err = %v, want ErrMixedCart", err)
	}
	if c.ItemCount() != 2 {
		t.Error("rejected checkout should leave the cart intact")
	}
}

func TestPlaceOrderSubmitsAndClearsCart(t *testing.T) {
	c := newTestCart(t)
	c.AddItem(model.CartLine{ID: 1, Name: "Dosa", Price: 120, RestaurantID: 9}, 2)
	c.AddItem(model.CartLine{ID: 2, Name: "Idli", Price: 60, RestaurantID: 9}, 0)
	api := &fakeCheckoutAPI{}
	co := NewCheckout(c, fakeAuth{loggedIn: true}, api, pricing.DefaultFees(), nil)

	order, err := co.PlaceOrder(context.Background(), 5, "UPI", "no onions")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.ID != 42 {
		t.Errorf("order id = %d, want 42", order.ID)
	}

	req := api.req
	if req.RestaurantID != 9 || req.DeliveryAddressID != 5 {
		t.Errorf("request routing = %+v", req)
	}
	if req.PaymentMethod != "UPI" || req.SpecialInstructions != "no onions" {
		t.Errorf("payment fields = %+v", req)
	}
	if len(req.Items) != 2 {
		t.Fatalf("expected 2 request lines, got %d", len(req.Items))
	}
	if req.Items[0].MenuItemID != 1 || req.Items[0].Quantity != 2 {
		t.Errorf("line 0 = %+v", req.Items[0])
	}
	if req.Items[1].Quantity != 1 {
		t.Errorf("missing quantity should submit as 1, got %d", req.Items[1].Quantity)
	}

	if c.ItemCount() != 0 {
		t.Error("cart should be empty after a successful order")
	}
}

func TestPlaceOrderKeepsCartOnFailure(t *testing.T) {
	c := newTestCart(t)
	c.AddItem(model.CartLine{ID: 1, Price: 120, RestaurantID: 9}, 2)
	api := &fakeCheckoutAPI{err: errors.New("backend down")}
	co := NewCheckout(c, fakeAuth{loggedIn: true}, api, pricing.DefaultFees(), nil)

	if _, err := co.PlaceOrder(context.Background(), 5, "CARD", ""); err == nil {
		t.Fatal("expected an error")
	}
	if c.ItemCount() != 2 {
		t.Error("failed checkout should leave the cart intact")
	}
}

func TestQuotePricesCurrentCart(t *testing.T) {
	c := newTestCart(t)
	c.AddItem(model.CartLine{ID: 1, Price: 250, RestaurantID: 9}, 2)
	co := NewCheckout(c, fakeAuth{loggedIn: true}, &fakeCheckoutAPI{}, pricing.DefaultFees(), nil)

	q := co.Quote()
	if q.Subtotal != 500 {
		t.Errorf("subtotal = %v, want 500", q.Subtotal)
	}
	if q.GrandTotal != 570 {
		t.Errorf("grand total = %v, want 570", q.GrandTotal)
	}
}
