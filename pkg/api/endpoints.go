package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/palanikalyan/K-MATO/pkg/model"
)

// Auth

// Login exchanges credentials for a token (and, on most deployments, the
// user profile).
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "login", "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "register", "/auth/register", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "me", "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Restaurants

// Restaurants lists all restaurants.
func (c *Client) Restaurants(ctx context.Context) ([]model.Restaurant, error) {
	var out []model.Restaurant
	if err := c.do(ctx, http.MethodGet, "restaurants", "/restaurants", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RestaurantByID fetches one restaurant.
func (c *Client) RestaurantByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	var out model.Restaurant
	if err := c.do(ctx, http.MethodGet, "restaurant", fmt.Sprintf("/restaurants/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestaurantsByCity lists restaurants in a city.
func (c *Client) RestaurantsByCity(ctx context.Context, city string) ([]model.Restaurant, error) {
	var out []model.Restaurant
	path := "/restaurants/city/" + url.PathEscape(city)
	if err := c.do(ctx, http.MethodGet, "restaurants_by_city", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Menu items

// MenuItems lists every menu item across restaurants.
func (c *Client) MenuItems(ctx context.Context) ([]model.MenuItem, error) {
	var out []model.MenuItem
	if err := c.do(ctx, http.MethodGet, "menu_items", "/menu-items", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MenuByRestaurant lists a restaurant's menu.
func (c *Client) MenuByRestaurant(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	var out []model.MenuItem
	path := fmt.Sprintf("/menu-items/restaurant/%d", restaurantID)
	if err := c.do(ctx, http.MethodGet, "menu", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MenuItemByID fetches one menu item.
func (c *Client) MenuItemByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	var out model.MenuItem
	if err := c.do(ctx, http.MethodGet, "menu_item", fmt.Sprintf("/menu-items/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders

// CreateOrder places an order.
func (c *Client) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	var out model.Order
	if err := c.do(ctx, http.MethodPost, "create_order", "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CustomerOrders lists the authenticated customer's orders.
func (c *Client) CustomerOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := c.do(ctx, http.MethodGet, "customer_orders", "/orders/customer", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderByID fetches one order.
func (c *Client) OrderByID(ctx context.Context, id int64) (*model.Order, error) {
	var out model.Order
	if err := c.do(ctx, http.MethodGet, "order", fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder cancels an order.
func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, "cancel_order", fmt.Sprintf("/orders/%d/cancel", id), struct{}{}, nil)
}

// PayForOrder submits payment details for an order. The client performs no
// payment logic of its own; this is a pass-through.
func (c *Client) PayForOrder(ctx context.Context, orderID int64, payload any) error {
	return c.do(ctx, http.MethodPost, "pay_order", fmt.Sprintf("/orders/%d/pay", orderID), payload, nil)
}

// Addresses

// Addresses lists the authenticated user's delivery addresses.
func (c *Client) Addresses(ctx context.Context) ([]model.Address, error) {
	var out []model.Address
	if err := c.do(ctx, http.MethodGet, "addresses", "/addresses/user", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAddress adds a delivery address.
func (c *Client) CreateAddress(ctx context.Context, addr model.Address) (*model.Address, error) {
	var out model.Address
	if err := c.do(ctx, http.MethodPost, "create_address", "/addresses", addr, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
