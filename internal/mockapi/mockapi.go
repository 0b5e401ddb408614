// Package mockapi is an in-process stand-in for the K-MATO backend. It
// serves the REST surface the client talks to, wrapped in the backend's
// success/message/data envelope, plus the order-update websocket. It exists
// for the CLI's offline mode and for integration tests.
package mockapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/palanikalyan/K-MATO/pkg/model"
)

// Server holds the mock backend's mutable state behind one mutex.
type Server struct {
	logger *slog.Logger

	mu          sync.Mutex
	users       map[string]*mockUser
	restaurants []model.Restaurant
	menu        []model.MenuItem
	addresses   []model.Address
	orders      []model.Order
	nextOrderID int64
	nextAddrID  int64

	hub *hub
}

type mockUser struct {
	user     model.User
	password string
	token    string
}

// New creates a seeded mock backend.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:      logger.With("component", "mockapi"),
		users:       map[string]*mockUser{},
		nextOrderID: 100,
		nextAddrID:  10,
		hub:         newHub(logger),
	}
	s.seed()
	return s
}

func (s *Server) seed() {
	s.users["demo@kmato.app"] = &mockUser{
		user: model.User{
			ID:       1,
			Email:    "demo@kmato.app",
			FullName: "Demo Customer",
			Role:     model.RoleCustomer,
			IsActive: true,
		},
		password: "password",
		token:    "mock-token-1",
	}
	s.restaurants = []model.Restaurant{
		{ID: 1, Name: "Biryani House", City: "Chennai", Rating: 4.4, IsOpen: true},
		{ID: 2, Name: "Dosa Corner", City: "Chennai", Rating: 4.1, IsOpen: true},
		{ID: 3, Name: "Punjabi Dhaba", City: "Delhi", Rating: 3.9, IsOpen: false},
	}
	s.menu = []model.MenuItem{
		{ID: 11, Name: "Chicken Biryani", Price: 250, Category: "Mains", IsAvailable: true, RestaurantID: 1},
		{ID: 12, Name: "Veg Biryani", Price: 180, Category: "Mains", IsAvailable: true, IsVegetarian: true, RestaurantID: 1},
		{ID: 21, Name: "Masala Dosa", Price: 120, Category: "Tiffin", IsAvailable: true, IsVegetarian: true, RestaurantID: 2},
		{ID: 22, Name: "Idli", Price: 60, Category: "Tiffin", IsAvailable: true, IsVegetarian: true, RestaurantID: 2},
	}
	s.addresses = []model.Address{
		{ID: 5, Street: "12 Beach Road", City: "Chennai", State: "TN", ZipCode: "600001", IsDefault: true},
	}
}

// Handler returns the HTTP handler for the mock backend.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Get("/auth/me", s.handleMe)

		r.Get("/restaurants", s.handleRestaurants)
		r.Get("/restaurants/{id}", s.handleRestaurantByID)
		r.Get("/restaurants/city/{city}", s.handleRestaurantsByCity)

		r.Get("/menu-items", s.handleMenuItems)
		r.Get("/menu-items/restaurant/{id}", s.handleMenuByRestaurant)
		r.Get("/menu-items/{id}", s.handleMenuItemByID)

		r.Post("/orders", s.handleCreateOrder)
		r.Get("/orders/customer", s.handleCustomerOrders)
		r.Get("/orders/{id}", s.handleOrderByID)
		r.Put("/orders/{id}/cancel", s.handleCancelOrder)
		r.Post("/orders/{id}/pay", s.handlePayOrder)

		r.Get("/addresses/user", s.handleAddresses)
		r.Post("/addresses", s.handleCreateAddress)
	})

	r.Get("/ws/orders", s.hub.handleWS)
	return r
}

// Orders returns a copy of every order the mock has accepted.
func (s *Server) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Order(nil), s.orders...)
}

// PushOrderUpdate broadcasts an order-level patch to connected clients and
// folds it into the mock's own order list.
func (s *Server) PushOrderUpdate(orderID int64, status model.OrderStatus) {
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
		}
	}
	s.mu.Unlock()

	s.hub.broadcast(map[string]any{
		"type": "ORDER_UPDATE",
		"data": map[string]any{"id": orderID, "status": status},
	})
}

// PushDeliveryUpdate broadcasts a delivery-level patch.
func (s *Server) PushDeliveryUpdate(d model.Delivery) {
	s.hub.broadcast(map[string]any{
		"type": "DELIVERY_UPDATE",
		"data": d,
	})
}

// envelope mirrors the backend's response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

func (s *Server) authed(r *http.Request) *mockUser {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.token == token {
			return u
		}
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	u, found := s.users[creds.Email]
	s.mu.Unlock()
	if !found || u.password != creds.Password {
		fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	user := u.user
	ok(w, model.AuthResponse{Token: u.token, User: &user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reg.Email == "" || reg.Password == "" {
		fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[reg.Email]; exists {
		s.mu.Unlock()
		fail(w, http.StatusConflict, "Email already registered")
		return
	}
	role := reg.Role
	if role == "" {
		role = model.RoleCustomer
	}
	id := int64(len(s.users) + 1)
	u := &mockUser{
		user: model.User{
			ID:       id,
			Email:    reg.Email,
			FullName: reg.FullName,
			Role:     role,
			IsActive: true,
		},
		password: reg.Password,
		token:    fmt.Sprintf("mock-token-%d", id),
	}
	s.users[reg.Email] = u
	s.mu.Unlock()

	user := u.user
	ok(w, model.AuthResponse{Token: u.token, User: &user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u := s.authed(r)
	if u == nil {
		fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ok(w, u.user)
}

func (s *Server) handleRestaurants(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]model.Restaurant(nil), s.restaurants...)
	s.mu.Unlock()
	ok(w, out)
}

func (s *Server) handleRestaurantByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid restaurant id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rest := range s.restaurants {
		if rest.ID == id {
			ok(w, rest)
			return
		}
	}
	fail(w, http.StatusNotFound, "Restaurant not found")
}

func (s *Server) handleRestaurantsByCity(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Restaurant
	for _, rest := range s.restaurants {
		if strings.EqualFold(rest.City, city) {
			out = append(out, rest)
		}
	}
	ok(w, out)
}

func (s *Server) handleMenuItems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]model.MenuItem(nil), s.menu...)
	s.mu.Unlock()
	ok(w, out)
}

func (s *Server) handleMenuByRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid restaurant id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.MenuItem
	for _, item := range s.menu {
		if item.RestaurantID == id {
			out = append(out, item)
		}
	}
	ok(w, out)
}

func (s *Server) handleMenuItemByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid menu item id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.menu {
		if item.ID == id {
			ok(w, item)
			return
		}
	}
	fail(w, http.StatusNotFound, "Menu item not found")
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	u := s.authed(r)
	if u == nil {
		fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		fail(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := model.Order{
		ID:                  s.nextOrderID,
		CustomerID:          u.user.ID,
		CustomerName:        u.user.FullName,
		RestaurantID:        req.RestaurantID,
		Status:              model.StatusPending,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	}
	s.nextOrderID++

	for _, line := range req.Items {
		price := 0.0
		name := ""
		for _, item := range s.menu {
			if item.ID == line.MenuItemID {
				price = item.Price
				name = item.Name
			}
		}
		order.Items = append(order.Items, model.OrderItem{
			MenuItemID:   line.MenuItemID,
			MenuItemName: name,
			Quantity:     line.Quantity,
			Price:        price,
			Subtotal:     price * float64(line.Quantity),
		})
		order.TotalAmount += price * float64(line.Quantity)
	}
	order.DeliveryFee = 40
	order.TaxAmount = order.TotalAmount * 0.05
	order.TotalAmount += order.DeliveryFee + 5 + order.TaxAmount

	s.orders = append(s.orders, order)
	s.logger.Info("mock order placed", "order_id", order.ID, "customer_id", u.user.ID)
	ok(w, order)
}

func (s *Server) handleCustomerOrders(w http.ResponseWriter, r *http.Request) {
	u := s.authed(r)
	if u == nil {
		fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.orders {
		if o.CustomerID == u.user.ID {
			out = append(out, o)
		}
	}
	ok(w, out)
}

func (s *Server) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	if s.authed(r) == nil {
		fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			ok(w, o)
			return
		}
	}
	fail(w, http.StatusNotFound, "Order not found")
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	if s.authed(r) == nil {
		fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			if s.orders[i].Status != model.StatusPending && s.orders[i].Status != model.StatusConfirmed {
				fail(w, http.StatusConflict, "Order can no longer be cancelled")
				return
			}
			s.orders[i].Status = model.StatusCancelled
			ok(w, s.orders[i])
			return
		}
	}
	fail(w, http.StatusNotFound, "Order not found")
}

func (s *Server) handlePayOrder(w http.ResponseWriter, r *http.Request) {
	if s.authed(r) == nil {
		fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].PaymentStatus = "PAID"
			ok(w, s.orders[i])
			return
		}
	}
	fail(w, http.StatusNotFound, "Order not found")
}

func (s *Server) handleAddresses(w http.ResponseWriter, r *http.Request) {
	if s.authed(r) == nil {
		fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	s.mu.Lock()
	out := append([]model.Address(nil), s.addresses...)
	s.mu.Unlock()
	ok(w, out)
}

func (s *Server) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	if s.authed(r) == nil {
		fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var addr model.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	addr.ID = s.nextAddrID
	s.nextAddrID++
	s.addresses = append(s.addresses, addr)
	s.mu.Unlock()
	ok(w, addr)
}
