package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/plushmart/storefront/internal/model"
)

// TokenSource supplies the current bearer token. An empty token means
// the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, mostly useful in tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// TokenFunc adapts a function to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client is a thin wrapper over the backend REST API. It owns no state
// beyond the base URL and token source; all caching lives in the store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
	}
}

// Authenticate exchanges credentials for a session.
func (c *Client) Authenticate(ctx context.Context, creds Credentials) (*model.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return &model.Session{
		Token: resp.Token,
		User: model.User{
			ID:        resp.User.ID,
			Email:     resp.User.Email,
			FirstName: resp.User.FirstName,
			LastName:  resp.User.LastName,
			Role:      model.Role(resp.User.Role),
		},
	}, nil
}

func (c *Client) GetProducts(ctx context.Context, filters ProductFilters) (*ProductPage, error) {
	q := url.Values{}
	if filters.Page > 0 {
		q.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.Limit > 0 {
		q.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	if filters.Category != "" {
		q.Set("category", filters.Category)
	}
	path := "/api/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp productListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	page := &ProductPage{Total: resp.Total, Page: resp.Page, Limit: resp.Limit}
	for _, p := range resp.Products {
		page.Products = append(page.Products, toProduct(p))
	}
	return page, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]model.Category, error) {
	var resp categoriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return resp.Categories, nil
}

// GetCartItems fetches the server's authoritative cart.
func (c *Client) GetCartItems(ctx context.Context) ([]model.CartItem, error) {
	var resp cartResponse
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &resp); err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	items := make([]model.CartItem, 0, len(resp.Items))
	for _, line := range resp.Items {
		items = append(items, toCartItem(line))
	}
	return items, nil
}

func (c *Client) AddToCart(ctx context.Context, req AddToCartRequest) error {
	if err := c.do(ctx, http.MethodPost, "/api/cart", req, nil); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

func (c *Client) UpdateCartItem(ctx context.Context, backendID string, quantity int) error {
	path := "/api/cart/" + url.PathEscape(backendID)
	if err := c.do(ctx, http.MethodPut, path, updateCartItemRequest{Quantity: quantity}, nil); err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

func (c *Client) RemoveFromCart(ctx context.Context, backendID string) error {
	path := "/api/cart/" + url.PathEscape(backendID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/cart", nil, nil); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Checkout places an order from the server-side cart contents.
func (c *Client) Checkout(ctx context.Context, info model.DeliveryInfo) (*model.Order, error) {
	req := checkoutRequest{Address: info.Address, ContactNumber: info.ContactNumber}
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	return &order, nil
}

func (c *Client) GetMyOrders(ctx context.Context) ([]model.Order, error) {
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, "/api/orders/mine", nil, &resp); err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return resp.Orders, nil
}

// --- Admin ---

func (c *Client) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	var resp serverProduct
	if err := c.do(ctx, http.MethodPost, "/api/products", fromProduct(p), &resp); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	created := toProduct(resp)
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	path := "/api/products/" + url.PathEscape(p.ID)
	var resp serverProduct
	if err := c.do(ctx, http.MethodPut, path, fromProduct(p), &resp); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	updated := toProduct(resp)
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	path := "/api/products/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (c *Client) GetDashboard(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/dashboard", nil, &stats); err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	return &stats, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	path := "/api/orders/" + url.PathEscape(orderID) + "/status"
	if err := c.do(ctx, http.MethodPut, path, updateOrderStatusRequest{Status: status}, nil); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// UploadImage sends a product image as multipart form data and returns
// the URL the server stored it under.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/uploads", &body)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload image: %w", readError(resp))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload image: decode response: %w", err)
	}
	return out.URL, nil
}

// do issues one JSON request. A nil body sends no payload; a nil out
// discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func readError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}
