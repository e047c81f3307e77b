package store

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plushmart/storefront/internal/model"
	"github.com/plushmart/storefront/internal/snapshot"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(expiresIn).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLogin_SetsSessionAndAdoptsServerCart(t *testing.T) {
	s, backend, snaps := newTestStore(t)
	backend.lines = []serverLine{{id: "srv-9", product: teddy(), quantity: 1}}

	user, err := s.Login(context.Background(), "bear@plushmart.test", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.True(t, s.Authenticated())

	items := s.CartItems()
	require.Len(t, items, 1)
	assert.Equal(t, "srv-9", items[0].BackendID)

	require.NotNil(t, snaps.data)
	assert.NotNil(t, snaps.data.Session)
}

func TestLogin_Validation(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogout_ScrubsSnapshot(t *testing.T) {
	s, _, snaps := newTestStore(t)
	login(t, s)
	require.NoError(t, s.AddItem(context.Background(), teddy(), 1, nil))
	require.NotNil(t, snaps.data)

	require.NoError(t, s.Logout(context.Background()))

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.CartItems())
	assert.Nil(t, snaps.data)
}

func TestRestore_ValidSession(t *testing.T) {
	s, _, snaps := newTestStore(t)
	snaps.data = &snapshot.Data{
		Session:   &model.Session{Token: signedToken(t, time.Hour), User: model.User{ID: "u1"}},
		CartItems: []model.CartItem{{Product: teddy(), Quantity: 2}},
	}

	require.NoError(t, s.Restore(context.Background()))
	assert.True(t, s.Authenticated())
	assert.Len(t, s.CartItems(), 1)
}

func TestRestore_ExpiredSessionDiscarded(t *testing.T) {
	s, _, snaps := newTestStore(t)
	snaps.data = &snapshot.Data{
		Session:   &model.Session{Token: signedToken(t, -time.Hour), User: model.User{ID: "u1"}},
		CartItems: []model.CartItem{{Product: teddy(), Quantity: 2}},
	}

	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.CartItems(), "stale cart must not resurrect")
	assert.Nil(t, snaps.data)
}

func TestRestore_GarbageTokenDiscarded(t *testing.T) {
	s, _, snaps := newTestStore(t)
	snaps.data = &snapshot.Data{
		Session: &model.Session{Token: "not-a-jwt"},
	}
	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.Authenticated())
}

func TestCheckout_RequiresAuth(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.Checkout(context.Background(), model.DeliveryInfo{Address: "12 Bear St", ContactNumber: "555"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestCheckout_ValidatesBeforeNetwork(t *testing.T) {
	s, _, _ := newTestStore(t)
	login(t, s)
	require.NoError(t, s.AddItem(context.Background(), teddy(), 1, nil))

	_, err := s.Checkout(context.Background(), model.DeliveryInfo{ContactNumber: "555"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Checkout(context.Background(), model.DeliveryInfo{Address: "12 Bear St"})
	assert.ErrorIs(t, err, ErrValidation)

	// Failed validation leaves the cart alone.
	assert.Len(t, s.CartItems(), 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	s, _, _ := newTestStore(t)
	login(t, s)
	_, err := s.Checkout(context.Background(), model.DeliveryInfo{Address: "12 Bear St", ContactNumber: "555"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_ClearsMirrorAndRecordsOrder(t *testing.T) {
	s, _, _ := newTestStore(t)
	login(t, s)
	require.NoError(t, s.AddItem(context.Background(), teddy(), 2, nil))

	order, err := s.Checkout(context.Background(), model.DeliveryInfo{Address: "12 Bear St", ContactNumber: "555"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Empty(t, s.CartItems())
	require.Len(t, s.Orders(), 1)
	assert.Equal(t, order.ID, s.Orders()[0].ID)
}

func TestCartTotal_SumsLineTotals(t *testing.T) {
	s, backend, _ := newTestStore(t)
	login(t, s)

	require.NoError(t, s.AddItem(context.Background(), teddy(), 2, nil)) // 50
	bunny := model.Product{ID: "bunny-7", Price: decimal.NewFromFloat(19.99)}
	backend.register(bunny)
	require.NoError(t, s.AddItem(context.Background(), bunny, 1, nil)) // 19.99

	assert.True(t, s.CartTotal().Equal(decimal.NewFromFloat(69.99)), "got %s", s.CartTotal())
	assert.Equal(t, 3, s.CartCount())
}

func TestLowStockProducts(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.mu.Lock()
	s.products = []model.Product{
		{ID: "a", Stock: 2},
		{ID: "b", Stock: 12},
		{ID: "c", Stock: 5},
	}
	s.mu.Unlock()

	low := s.LowStockProducts(5)
	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].ID)
	assert.Equal(t, "c", low[1].ID)
}
