package integration_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	kmato "github.com/palanikalyan/K-MATO"
	"github.com/palanikalyan/K-MATO/internal/config"
	"github.com/palanikalyan/K-MATO/internal/mockapi"
	"github.com/palanikalyan/K-MATO/pkg/model"
	"github.com/palanikalyan/K-MATO/pkg/storage"
)

func startBackend(t *testing.T) (*mockapi.Server, *config.Config) {
	t.Helper()

	backend := mockapi.New(slog.Default())
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.APIURL = srv.URL + "/api"
	cfg.WSURL = "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders"
	cfg.Storage.Driver = "memory"
	return backend, cfg
}

func newClient(t *testing.T, cfg *config.Config) *kmato.Client {
	t.Helper()

	client, err := kmato.New(cfg, kmato.WithStore(storage.NewMemoryStore()))
	if err != nil {
		t.Fatalf("kmato.New: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func login(t *testing.T, client *kmato.Client) {
	t.Helper()

	_, err := client.Session.Login(context.Background(), model.Credentials{
		Email:    "demo@kmato.app",
		Password: "password",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestLoginBrowseCheckout(t *testing.T) {
	_, cfg := startBackend(t)
	client := newClient(t, cfg)
	ctx := context.Background()

	login(t, client)
	if !client.Session.IsLoggedIn() {
		t.Fatal("expected a logged-in session")
	}
	if u := client.Session.User(); u == nil || u.Email != "demo@kmato.app" {
		t.Fatalf("profile = %+v", u)
	}

	restaurants, err := client.API.Restaurants(ctx)
	if err != nil {
		t.Fatalf("Restaurants: %v", err)
	}
	if len(restaurants) != 3 {
		t.Fatalf("expected 3 restaurants, got %d", len(restaurants))
	}

	menu, err := client.API.MenuByRestaurant(ctx, 1)
	if err != nil {
		t.Fatalf("MenuByRestaurant: %v", err)
	}
	if len(menu) != 2 {
		t.Fatalf("expected 2 menu items, got %d", len(menu))
	}

	for _, item := range menu {
		client.Cart.AddItem(model.CartLine{
			ID:           item.ID,
			Name:         item.Name,
			Price:        item.Price,
			RestaurantID: item.RestaurantID,
		}, 1)
	}
	// 250 + 180 + 40 + 5 + 21.50
	if got := client.Checkout.Quote().GrandTotal; got != 496.5 {
		t.Errorf("grand total = %v, want 496.5", got)
	}

	addrs, err := client.API.Addresses(ctx)
	if err != nil {
		t.Fatalf("Addresses: %v", err)
	}
	order, err := client.Checkout.PlaceOrder(ctx, addrs[0].ID, "UPI", "ring the bell")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.Status != model.StatusPending {
		t.Errorf("order status = %q", order.Status)
	}
	if client.Cart.ItemCount() != 0 {
		t.Error("cart should be empty after checkout")
	}

	if err := client.Orders.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if active := client.Orders.Active(); len(active) != 1 || active[0].ID != order.ID {
		t.Fatalf("active orders = %+v", active)
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	_, cfg := startBackend(t)
	st := storage.NewMemoryStore()

	first, err := kmato.New(cfg, kmato.WithStore(st))
	if err != nil {
		t.Fatalf("kmato.New: %v", err)
	}
	login(t, first)
	first.Cart.AddItem(model.CartLine{ID: 11, Price: 250, RestaurantID: 1}, 2)
	if err := first.Feed.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A second client over the same storage picks the state back up.
	second, err := kmato.New(cfg, kmato.WithStore(st))
	if err != nil {
		t.Fatalf("kmato.New: %v", err)
	}
	t.Cleanup(func() { second.Close() })
	if !second.Session.IsLoggedIn() {
		t.Fatal("session did not survive the restart")
	}
	if u := second.Session.User(); u == nil || u.Email != "demo@kmato.app" {
		t.Fatalf("rehydrated profile = %+v", u)
	}
	if got := second.Cart.Total(); got != 500 {
		t.Errorf("rehydrated cart total = %v, want 500", got)
	}
}

func TestWatchOrdersFoldsLivePatches(t *testing.T) {
	backend, cfg := startBackend(t)
	client := newClient(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	login(t, client)
	client.Cart.AddItem(model.CartLine{ID: 21, Price: 120, RestaurantID: 2}, 1)
	order, err := client.Checkout.PlaceOrder(ctx, 5, "CARD", "")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if err := client.WatchOrders(ctx); err != nil {
		t.Fatalf("WatchOrders: %v", err)
	}

	backend.PushOrderUpdate(order.ID, model.StatusConfirmed)
	waitFor(t, func() bool {
		o := findOrder(client, order.ID)
		return o != nil && o.Status == model.StatusConfirmed
	})

	backend.PushDeliveryUpdate(model.Delivery{
		OrderID:    order.ID,
		Status:     model.DeliveryPickedUp,
		EtaSeconds: 600,
	})
	waitFor(t, func() bool {
		o := findOrder(client, order.ID)
		return o != nil && o.Delivery != nil && o.Delivery.Status == model.DeliveryPickedUp
	})
}

func findOrder(client *kmato.Client, id int64) *model.Order {
	for _, o := range client.Orders.Orders() {
		if o.ID == id {
			return &o
		}
	}
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
