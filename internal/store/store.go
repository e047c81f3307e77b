// Package store holds the single client-side state snapshot: the
// authenticated session, the catalog cache, the local cart mirror, and
// dashboard data. Views read from it; intents dispatch through it. The
// server's cart is authoritative; everything local is provisional
// until the next resync.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/plushmart/storefront/internal/api"
	"github.com/plushmart/storefront/internal/model"
	"github.com/plushmart/storefront/internal/snapshot"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrValidation             = errors.New("validation failed")
	ErrCartItemNotFound       = errors.New("cart item not found")
	ErrEmptyCart              = errors.New("cart is empty")
)

// Backend is the slice of the remote API the store depends on.
type Backend interface {
	Authenticate(ctx context.Context, creds api.Credentials) (*model.Session, error)
	GetProducts(ctx context.Context, filters api.ProductFilters) (*api.ProductPage, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCartItems(ctx context.Context) ([]model.CartItem, error)
	AddToCart(ctx context.Context, req api.AddToCartRequest) error
	UpdateCartItem(ctx context.Context, backendID string, quantity int) error
	RemoveFromCart(ctx context.Context, backendID string) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context, info model.DeliveryInfo) (*model.Order, error)
	GetMyOrders(ctx context.Context) ([]model.Order, error)
	GetDashboard(ctx context.Context) (*model.DashboardStats, error)
	CreateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

type Store struct {
	backend     Backend
	snaps       snapshot.Store
	log         *slog.Logger
	resyncDelay time.Duration

	// opMu serializes cart mutations end to end, network call included,
	// so two in-flight operations cannot interleave.
	opMu sync.Mutex

	// mu guards the state fields below and is never held across a
	// network call.
	mu         sync.RWMutex
	session    *model.Session
	products   []model.Product
	total      int
	categories []model.Category
	cart       []model.CartItem
	orders     []model.Order
	dashboard  *model.DashboardStats
}

// New builds a store around the given backend and snapshot persistence.
// resyncDelay is the settling pause before the post-mutation resync;
// tests pass zero.
func New(backend Backend, snaps snapshot.Store, log *slog.Logger, resyncDelay time.Duration) *Store {
	return &Store{backend: backend, snaps: snaps, log: log, resyncDelay: resyncDelay}
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// Restore loads the persisted snapshot. A session whose token has
// expired is discarded together with its cart, so a stale cart cannot
// resurrect after the login lapses.
func (s *Store) Restore(ctx context.Context) error {
	data, err := s.snaps.Load(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	if data.Session == nil || !tokenValid(data.Session.Token) {
		if data.Session != nil {
			s.log.Info("discarding expired session from snapshot")
		}
		return s.snaps.Clear(ctx)
	}

	s.mu.Lock()
	s.session = data.Session
	s.cart = data.CartItems
	s.mu.Unlock()
	return nil
}

// tokenValid checks the bearer token's exp claim without verifying the
// signature. Verification is the server's job; this only avoids
// restoring a session the server is guaranteed to reject.
func tokenValid(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(time.Now())
}

// --- Auth ---

func (s *Store) Login(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	session, err := s.backend.Authenticate(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	s.persist(ctx)

	// Adopt the server-side cart for the freshly authenticated user.
	s.opMu.Lock()
	if err := s.resync(ctx); err != nil {
		s.log.Warn("cart resync after login failed", "error", err)
	}
	s.opMu.Unlock()

	user := session.User
	return &user, nil
}

// Logout drops the session and the cart mirror and scrubs the
// persisted snapshot.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = nil
	s.cart = nil
	s.orders = nil
	s.dashboard = nil
	s.mu.Unlock()
	return s.snaps.Clear(ctx)
}

func (s *Store) Session() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

func (s *Store) Authenticated() bool { return s.Session() != nil }

// --- Catalog ---

// LoadCatalog refreshes the product and category caches. On failure the
// prior cache is left untouched and the error surfaces to the caller.
func (s *Store) LoadCatalog(ctx context.Context, filters api.ProductFilters) error {
	page, err := s.backend.GetProducts(ctx, filters)
	if err != nil {
		return err
	}
	categories, err := s.backend.GetCategories(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.products = page.Products
	s.total = page.Total
	s.categories = categories
	s.mu.Unlock()
	return nil
}

func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// CatalogTotal is the server-reported product count for the current
// filter, which can exceed the cached page.
func (s *Store) CatalogTotal() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// ProductByID looks a product up in the catalog cache.
func (s *Store) ProductByID(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// LowStockProducts returns cached products at or below the threshold.
func (s *Store) LowStockProducts(threshold int) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Product
	for _, p := range s.products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out
}

// --- Orders & dashboard ---

func (s *Store) LoadOrders(ctx context.Context) error {
	if !s.Authenticated() {
		return ErrAuthenticationRequired
	}
	orders, err := s.backend.GetMyOrders(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

func (s *Store) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) LoadDashboard(ctx context.Context) error {
	if !s.Authenticated() {
		return ErrAuthenticationRequired
	}
	stats, err := s.backend.GetDashboard(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.dashboard = stats
	s.mu.Unlock()
	return nil
}

func (s *Store) Dashboard() *model.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dashboard == nil {
		return nil
	}
	copied := *s.dashboard
	return &copied
}

// --- Checkout ---

// Checkout validates delivery info, places the order, and clears the
// cart mirror on success. Validation failures never reach the network.
func (s *Store) Checkout(ctx context.Context, info model.DeliveryInfo) (*model.Order, error) {
	if !s.Authenticated() {
		return nil, ErrAuthenticationRequired
	}
	if info.Address == "" {
		return nil, fmt.Errorf("%w: delivery address is required", ErrValidation)
	}
	if info.ContactNumber == "" {
		return nil, fmt.Errorf("%w: contact number is required", ErrValidation)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if len(s.CartItems()) == 0 {
		return nil, ErrEmptyCart
	}

	order, err := s.backend.Checkout(ctx, info)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cart = nil
	s.orders = append([]model.Order{*order}, s.orders...)
	s.mu.Unlock()
	s.persist(ctx)
	return order, nil
}

// --- Derived state ---

// CartItems returns a copy of the cart mirror.
func (s *Store) CartItems() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

// CartTotal is the sum of line totals over the mirror.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, item := range s.cart {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CartCount is the number of units in the mirror.
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, item := range s.cart {
		count += item.Quantity
	}
	return count
}

// persist writes the current snapshot. Persistence failures are logged
// and otherwise ignored; the in-memory state stays usable.
func (s *Store) persist(ctx context.Context) {
	s.mu.RLock()
	data := &snapshot.Data{Session: s.session, CartItems: s.cart}
	s.mu.RUnlock()
	if err := s.snaps.Save(ctx, data); err != nil {
		s.log.Warn("persist snapshot failed", "error", err)
	}
}
