package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plushmart/storefront/internal/model"
)

// --- Auth ---

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  serverUser `json:"user"`
}

type serverUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// --- Products ---

// serverProduct is the backend's product shape. It differs from the
// domain shape (title vs name, countInStock vs stock) and is reconciled
// by toProduct.
type serverProduct struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	CategoryName string          `json:"category"`
	CountInStock int             `json:"countInStock"`
	Rating       float64         `json:"rating"`
	NumReviews   int             `json:"numReviews"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toProduct(p serverProduct) model.Product {
	return model.Product{
		ID:          p.ID,
		Name:        p.Title,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.Image,
		Category:    p.CategoryName,
		Stock:       p.CountInStock,
		Rating:      p.Rating,
		ReviewCount: p.NumReviews,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromProduct(p model.Product) serverProduct {
	return serverProduct{
		ID:           p.ID,
		Title:        p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Image:        p.ImageURL,
		CategoryName: p.Category,
		CountInStock: p.Stock,
		Rating:       p.Rating,
		NumReviews:   p.ReviewCount,
	}
}

// ProductFilters narrows GetProducts. Zero values mean "no filter".
type ProductFilters struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

type productListResponse struct {
	Products []serverProduct `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []model.Product
	Total    int
	Page     int
	Limit    int
}

type categoriesResponse struct {
	Categories []model.Category `json:"categories"`
}

// --- Cart ---

// AddToCartRequest carries the canonical personalization shape; legacy
// payloads are normalized before this is built.
type AddToCartRequest struct {
	ProductID       string                 `json:"product_id"`
	Quantity        int                    `json:"quantity"`
	Personalization *model.Personalization `json:"personalization,omitempty"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type serverCartLine struct {
	ID              string                 `json:"id"`
	Product         serverProduct          `json:"product"`
	Quantity        int                    `json:"quantity"`
	Personalization *model.Personalization `json:"personalization,omitempty"`
}

type cartResponse struct {
	Items []serverCartLine `json:"items"`
}

// toCartItem maps an authoritative cart line into the mirror shape.
// The server knows nothing of local IDs, so a fresh one is minted here.
func toCartItem(line serverCartLine) model.CartItem {
	return model.CartItem{
		LocalID:         uuid.New(),
		BackendID:       line.ID,
		Product:         toProduct(line.Product),
		Quantity:        line.Quantity,
		Personalization: line.Personalization,
	}
}

// --- Orders ---

type checkoutRequest struct {
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
}

type ordersResponse struct {
	Orders []model.Order `json:"orders"`
}

type updateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// --- Uploads ---

type uploadResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}
