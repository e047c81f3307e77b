package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Personalization is the structured customization payload attached to a
// cart line. Older clients sent a free-form map; NormalizePersonalization
// converts that shape into this one before anything touches the wire.
type Personalization struct {
	Occasion    string      `json:"occasion,omitempty"`
	Accessories []Accessory `json:"accessories,omitempty"`
	Colors      []string    `json:"colors,omitempty"`
	GiftMessage string      `json:"gift_message,omitempty"`
}

type Accessory struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ExtraPrice is the per-unit surcharge: the sum of accessory prices.
func (p *Personalization) ExtraPrice() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Accessories {
		total = total.Add(a.Price)
	}
	return total
}

// IsZero reports whether the personalization carries no choices at all.
func (p *Personalization) IsZero() bool {
	return p.Occasion == "" && len(p.Accessories) == 0 && len(p.Colors) == 0 && p.GiftMessage == ""
}

// NormalizePersonalization accepts the legacy free-form payload and
// returns the canonical structured form. Legacy quirks handled:
// accessories given as bare name strings (price zero), a single color
// under "color", and the message under either "message" or
// "gift_message". A nil or empty map yields nil.
func NormalizePersonalization(raw map[string]any) (*Personalization, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	p := &Personalization{}

	if v, ok := raw["occasion"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("personalization: occasion must be a string, got %T", v)
		}
		p.Occasion = s
	}

	if v, ok := raw["accessories"]; ok {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("personalization: accessories must be a list, got %T", v)
		}
		for _, entry := range list {
			acc, err := normalizeAccessory(entry)
			if err != nil {
				return nil, err
			}
			p.Accessories = append(p.Accessories, acc)
		}
	}

	if v, ok := raw["colors"]; ok {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("personalization: colors must be a list, got %T", v)
		}
		for _, entry := range list {
			s, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("personalization: color must be a string, got %T", entry)
			}
			p.Colors = append(p.Colors, s)
		}
	}
	if v, ok := raw["color"]; ok {
		if s, ok := v.(string); ok && s != "" {
			p.Colors = append(p.Colors, s)
		}
	}

	for _, key := range []string{"gift_message", "message"} {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok && p.GiftMessage == "" {
				p.GiftMessage = s
			}
		}
	}

	if p.IsZero() {
		return nil, nil
	}
	return p, nil
}

func normalizeAccessory(entry any) (Accessory, error) {
	switch v := entry.(type) {
	case string:
		return Accessory{Name: v, Price: decimal.Zero}, nil
	case map[string]any:
		acc := Accessory{Price: decimal.Zero}
		if name, ok := v["name"].(string); ok {
			acc.Name = name
		}
		if acc.Name == "" {
			return Accessory{}, fmt.Errorf("personalization: accessory missing name")
		}
		switch price := v["price"].(type) {
		case nil:
		case float64:
			acc.Price = decimal.NewFromFloat(price)
		case string:
			d, err := decimal.NewFromString(price)
			if err != nil {
				return Accessory{}, fmt.Errorf("personalization: accessory price %q: %w", price, err)
			}
			acc.Price = d
		default:
			return Accessory{}, fmt.Errorf("personalization: accessory price must be a number, got %T", price)
		}
		return acc, nil
	default:
		return Accessory{}, fmt.Errorf("personalization: accessory must be a name or object, got %T", entry)
	}
}
