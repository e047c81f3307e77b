package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePersonalization_Empty(t *testing.T) {
	p, err := NormalizePersonalization(nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NormalizePersonalization(map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNormalizePersonalization_Canonical(t *testing.T) {
	p, err := NormalizePersonalization(map[string]any{
		"occasion": "birthday",
		"accessories": []any{
			map[string]any{"name": "bow tie", "price": 2.5},
			map[string]any{"name": "party hat", "price": "1.25"},
		},
		"colors":       []any{"red", "honey"},
		"gift_message": "Happy birthday!",
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "birthday", p.Occasion)
	assert.Equal(t, []string{"red", "honey"}, p.Colors)
	assert.Equal(t, "Happy birthday!", p.GiftMessage)
	require.Len(t, p.Accessories, 2)
	assert.True(t, p.ExtraPrice().Equal(decimal.NewFromFloat(3.75)), "got %s", p.ExtraPrice())
}

func TestNormalizePersonalization_LegacyShapes(t *testing.T) {
	// Old clients sent bare accessory names, a single "color", and the
	// message under "message".
	p, err := NormalizePersonalization(map[string]any{
		"accessories": []any{"scarf"},
		"color":       "lavender",
		"message":     "Get well soon",
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Len(t, p.Accessories, 1)
	assert.Equal(t, "scarf", p.Accessories[0].Name)
	assert.True(t, p.Accessories[0].Price.IsZero())
	assert.Equal(t, []string{"lavender"}, p.Colors)
	assert.Equal(t, "Get well soon", p.GiftMessage)
}

func TestNormalizePersonalization_Malformed(t *testing.T) {
	_, err := NormalizePersonalization(map[string]any{"occasion": 42})
	assert.Error(t, err)

	_, err = NormalizePersonalization(map[string]any{"accessories": "bow"})
	assert.Error(t, err)

	_, err = NormalizePersonalization(map[string]any{
		"accessories": []any{map[string]any{"price": 1.0}},
	})
	assert.Error(t, err, "accessory without a name")

	_, err = NormalizePersonalization(map[string]any{
		"accessories": []any{map[string]any{"name": "bow", "price": "not-a-price"}},
	})
	assert.Error(t, err)
}

func TestCartItem_LineTotal(t *testing.T) {
	item := CartItem{
		Product:  Product{ID: "teddy-1", Price: decimal.NewFromInt(25)},
		Quantity: 1,
	}
	assert.True(t, item.LineTotal().Equal(decimal.NewFromInt(25)))

	item.Quantity = 2
	item.Personalization = &Personalization{
		Accessories: []Accessory{{Name: "bow", Price: decimal.NewFromFloat(2.5)}},
	}
	// (25 + 2.5) * 2
	assert.True(t, item.LineTotal().Equal(decimal.NewFromInt(55)), "got %s", item.LineTotal())
}

func TestCartItem_Confirmed(t *testing.T) {
	item := CartItem{}
	assert.False(t, item.Confirmed())
	item.BackendID = "srv-1"
	assert.True(t, item.Confirmed())
}
