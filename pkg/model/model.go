// Package model defines the K-MATO domain types exchanged with the remote
// backend and held by the client stores.
package model

import "strings"

// Role is a user role as reported by the backend. Comparison helpers are
// case-insensitive because deployments disagree on casing.
type Role string

const (
	RoleUser            Role = "USER"
	RoleCustomer        Role = "CUSTOMER"
	RoleRestaurantOwner Role = "RESTAURANT_OWNER"
	// RoleOwner is an alternate spelling some backends return for
	// RoleRestaurantOwner.
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

// Equals reports whether two roles match, ignoring case.
func (r Role) Equals(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// User is the authenticated user's profile.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	Role        Role      `json:"role"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Addresses   []Address `json:"addresses,omitempty"`
	IsActive    bool      `json:"isActive,omitempty"`
	CreatedAt   string    `json:"createdAt,omitempty"`
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up request payload.
type Registration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        Role   `json:"role,omitempty"`
}

// AuthResponse is the payload of a successful login or registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Restaurant is a browsable restaurant listing.
type Restaurant struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Address      string  `json:"address,omitempty"`
	City         string  `json:"city,omitempty"`
	PhoneNumber  string  `json:"phoneNumber,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	TotalReviews int     `json:"totalReviews,omitempty"`
	IsOpen       bool    `json:"isOpen"`
}

// MenuItem is one orderable catalog item.
type MenuItem struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Category     string  `json:"category,omitempty"`
	IsAvailable  bool    `json:"isAvailable"`
	IsVegetarian bool    `json:"isVegetarian,omitempty"`
	RestaurantID int64   `json:"restaurantId"`
}

// Address is a delivery address.
type Address struct {
	ID          int64  `json:"id,omitempty"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	AddressType string `json:"addressType,omitempty"`
	Landmark    string `json:"landmark,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty"`
}
