package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plushmart/storefront/internal/model"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(cartResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok-123"))
	_, err := c.GetCartItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(productListResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken(""))
	_, err := c.GetProducts(context.Background(), ProductFilters{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ProductShapeMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "plush", r.URL.Query().Get("category"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{
			"products": [{
				"id": "teddy-1",
				"title": "Classic Teddy",
				"price": "25.00",
				"image": "/img/teddy.png",
				"category": "bears",
				"countInStock": 7,
				"rating": 4.5,
				"numReviews": 12
			}],
			"total": 1, "page": 2, "limit": 20
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	page, err := c.GetProducts(context.Background(), ProductFilters{Page: 2, Category: "plush"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)

	p := page.Products[0]
	assert.Equal(t, "teddy-1", p.ID)
	assert.Equal(t, "Classic Teddy", p.Name)
	assert.Equal(t, "/img/teddy.png", p.ImageURL)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, 12, p.ReviewCount)
	assert.True(t, p.Price.Equal(decimalFromString(t, "25.00")))
}

func TestClient_CartLineMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "srv-44",
				"product": {"id": "teddy-1", "title": "Classic Teddy", "price": "25"},
				"quantity": 2,
				"personalization": {"occasion": "birthday"}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	items, err := c.GetCartItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "srv-44", item.BackendID)
	assert.NotEqual(t, [16]byte{}, [16]byte(item.LocalID), "local id is minted on mapping")
	assert.Equal(t, 2, item.Quantity)
	require.NotNil(t, item.Personalization)
	assert.Equal(t, "birthday", item.Personalization.Occasion)
}

func TestClient_ErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "token expired"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("stale"))
	err := c.AddToCart(context.Background(), AddToCartRequest{ProductID: "teddy-1", Quantity: 1})
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "token expired")
}

func TestClient_NetworkErrorIsNotAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, nil)
	err := c.ClearCart(context.Background())
	require.Error(t, err)
	assert.False(t, IsAuthError(err))
}

func TestClient_Authenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "bear@plushmart.test", creds.Email)
		_ = json.NewEncoder(w).Encode(authResponse{
			Token: "tok-1",
			User:  serverUser{ID: "u1", Email: creds.Email, Role: "cashier"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	session, err := c.Authenticate(context.Background(), Credentials{Email: "bear@plushmart.test", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, model.RoleCashier, session.User.Role)
}

func TestClient_UploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "teddy.png", header.Filename)
		_ = json.NewEncoder(w).Encode(uploadResponse{URL: "/img/teddy.png"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	url, err := c.UploadImage(context.Background(), "teddy.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/img/teddy.png", url)
}

func TestClient_CheckoutAndOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/orders":
			var req checkoutRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "12 Bear St", req.Address)
			_, _ = w.Write([]byte(`{"id": "order-1", "status": "pending", "total": "55"}`))
		case "/api/orders/mine":
			_, _ = w.Write([]byte(`{"orders": [{"id": "order-1", "status": "shipped"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("tok"))
	order, err := c.Checkout(context.Background(), model.DeliveryInfo{Address: "12 Bear St", ContactNumber: "555"})
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, model.OrderStatusPending, order.Status)

	orders, err := c.GetMyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderStatusShipped, orders[0].Status)
}
