package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plushmart/storefront/internal/model"
)

func TestFileStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStore(path)
	ctx := context.Background()

	data := &Data{
		Session: &model.Session{Token: "tok", User: model.User{ID: "u1", Role: model.RoleCustomer}},
		CartItems: []model.CartItem{{
			BackendID: "srv-1",
			Product:   model.Product{ID: "teddy-1", Price: decimal.NewFromInt(25)},
			Quantity:  2,
		}},
	}
	require.NoError(t, s.Save(ctx, data))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok", loaded.Session.Token)
	require.Len(t, loaded.CartItems, 1)
	assert.Equal(t, "srv-1", loaded.CartItems[0].BackendID)
	assert.True(t, loaded.CartItems[0].Product.Price.Equal(decimal.NewFromInt(25)))
}

func TestFileStore_LoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "state.json")
	s := NewFileStore(path)
	require.NoError(t, s.Save(context.Background(), &Data{}))

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
}

func TestFileStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Data{Session: &model.Session{Token: "tok"}}))
	require.NoError(t, s.Clear(ctx))

	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	// Clearing an absent snapshot is fine.
	require.NoError(t, s.Clear(ctx))
}

func TestFileStore_OverwriteReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Data{CartItems: []model.CartItem{{Quantity: 1}, {Quantity: 2}}}))
	require.NoError(t, s.Save(ctx, &Data{CartItems: []model.CartItem{{Quantity: 9}}}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.CartItems, 1)
	assert.Equal(t, 9, loaded.CartItems[0].Quantity)
}
