package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleCashier  Role = "cashier"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// Session is the authenticated identity held by the store and persisted
// in the snapshot. Token is the raw bearer token issued by the backend.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"review_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CartItem is one line of the local cart mirror. LocalID is assigned on
// the client and never leaves it; BackendID is assigned by the server
// once the line is accepted and is required for targeted update/remove
// calls. A line without a BackendID is local-only.
type CartItem struct {
	LocalID         uuid.UUID        `json:"local_id"`
	BackendID       string           `json:"backend_id,omitempty"`
	Product         Product          `json:"product"`
	Quantity        int              `json:"quantity"`
	Personalization *Personalization `json:"personalization,omitempty"`
}

// Confirmed reports whether the server has acknowledged this line.
func (ci CartItem) Confirmed() bool { return ci.BackendID != "" }

// ExtraPrice is the per-unit surcharge added by the personalization.
func (ci CartItem) ExtraPrice() decimal.Decimal {
	if ci.Personalization == nil {
		return decimal.Zero
	}
	return ci.Personalization.ExtraPrice()
}

// LineTotal is (unit price + extra price) * quantity.
func (ci CartItem) LineTotal() decimal.Decimal {
	unit := ci.Product.Price.Add(ci.ExtraPrice())
	return unit.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID            string          `json:"id"`
	Items         []OrderItem     `json:"items"`
	Address       string          `json:"address"`
	ContactNumber string          `json:"contact_number"`
	Status        OrderStatus     `json:"status"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ProductID       string           `json:"product_id"`
	ProductName     string           `json:"product_name"`
	Quantity        int              `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	Total           decimal.Decimal  `json:"total"`
	Personalization *Personalization `json:"personalization,omitempty"`
}

// DeliveryInfo is collected at checkout time.
type DeliveryInfo struct {
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
}

type DashboardStats struct {
	TotalOrders    int             `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalCustomers int             `json:"total_customers"`
	PendingOrders  int             `json:"pending_orders"`
}
