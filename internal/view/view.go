// Package view builds the data each screen renders. Views are pure
// consumers of the store: they read, derive, and never mutate.
package view

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plushmart/storefront/internal/model"
	"github.com/plushmart/storefront/internal/store"
)

// Name identifies a screen.
type Name string

const (
	Home      Name = "home"
	Grid      Name = "grid"
	Cart      Name = "cart"
	Dashboard Name = "dashboard"
	Profile   Name = "profile"
	POS       Name = "pos"
)

// For picks the landing view for a role: admins open on the dashboard,
// cashiers on the point-of-sale screen, everyone else on home.
func For(role model.Role) Name {
	switch role {
	case model.RoleAdmin:
		return Dashboard
	case model.RoleCashier:
		return POS
	default:
		return Home
	}
}

const featuredCount = 8

type HomeView struct {
	Featured   []model.Product  `json:"featured"`
	Categories []model.Category `json:"categories"`
	CartCount  int              `json:"cart_count"`
}

func BuildHome(s *store.Store) HomeView {
	products := s.Products()
	if len(products) > featuredCount {
		products = products[:featuredCount]
	}
	return HomeView{
		Featured:   products,
		Categories: s.Categories(),
		CartCount:  s.CartCount(),
	}
}

type GridView struct {
	Products   []model.Product  `json:"products"`
	Categories []model.Category `json:"categories"`
	Total      int              `json:"total"`
	CartCount  int              `json:"cart_count"`
}

func BuildGrid(s *store.Store) GridView {
	return GridView{
		Products:   s.Products(),
		Categories: s.Categories(),
		Total:      s.CatalogTotal(),
		CartCount:  s.CartCount(),
	}
}

// CartLine is one renderable row of the cart drawer.
type CartLine struct {
	LocalID         uuid.UUID              `json:"local_id"`
	Confirmed       bool                   `json:"confirmed"`
	Name            string                 `json:"name"`
	ImageURL        string                 `json:"image_url"`
	Quantity        int                    `json:"quantity"`
	UnitPrice       decimal.Decimal        `json:"unit_price"`
	ExtraPrice      decimal.Decimal        `json:"extra_price"`
	LineTotal       decimal.Decimal        `json:"line_total"`
	Personalization *model.Personalization `json:"personalization,omitempty"`
}

type CartView struct {
	Lines []CartLine      `json:"lines"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func BuildCart(s *store.Store) CartView {
	items := s.CartItems()
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			LocalID:         item.LocalID,
			Confirmed:       item.Confirmed(),
			Name:            item.Product.Name,
			ImageURL:        item.Product.ImageURL,
			Quantity:        item.Quantity,
			UnitPrice:       item.Product.Price,
			ExtraPrice:      item.ExtraPrice(),
			LineTotal:       item.LineTotal(),
			Personalization: item.Personalization,
		})
	}
	return CartView{Lines: lines, Count: s.CartCount(), Total: s.CartTotal()}
}

// lowStockThreshold is the stock level at or below which a product
// shows up on the admin restock list.
const lowStockThreshold = 5

type DashboardView struct {
	Stats    *model.DashboardStats `json:"stats,omitempty"`
	LowStock []model.Product       `json:"low_stock"`
}

func BuildDashboard(s *store.Store) DashboardView {
	return DashboardView{
		Stats:    s.Dashboard(),
		LowStock: s.LowStockProducts(lowStockThreshold),
	}
}

type ProfileView struct {
	User   *model.User   `json:"user,omitempty"`
	Orders []model.Order `json:"orders"`
}

func BuildProfile(s *store.Store) ProfileView {
	v := ProfileView{Orders: s.Orders()}
	if session := s.Session(); session != nil {
		user := session.User
		v.User = &user
	}
	return v
}

// POSView is the cashier screen: the full catalog for quick lookup
// plus the in-progress sale.
type POSView struct {
	Products []model.Product `json:"products"`
	Sale     CartView        `json:"sale"`
}

func BuildPOS(s *store.Store) POSView {
	return POSView{Products: s.Products(), Sale: BuildCart(s)}
}
