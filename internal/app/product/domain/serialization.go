package domain

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// Serialized attribute keys.
const (
	KeyID          = "id"
	KeyName        = "name"
	KeyDescription = "description"
	KeyPrice       = "price"
	KeyAvailable   = "available"
	KeyCategory    = "category"
)

// productPayload is the decoded shape of a serialized product.
// Pointers distinguish a missing key from a zero value.
type productPayload struct {
	Name        *string     `mapstructure:"name"`
	Description *string     `mapstructure:"description"`
	Price       interface{} `mapstructure:"price"`
	Available   *bool       `mapstructure:"available"`
	Category    *string     `mapstructure:"category"`
}

// Serialize converts the product into a plain mapping. The id is nil before
// the product is persisted, the price is a decimal string and the category
// is its label.
func (p *Product) Serialize() map[string]interface{} {
	var id interface{}
	if p.HasID() {
		id = p.id
	}
	return map[string]interface{}{
		KeyID:          id,
		KeyName:        p.name,
		KeyDescription: p.description,
		KeyPrice:       p.price.String(),
		KeyAvailable:   p.available,
		KeyCategory:    p.category.String(),
	}
}

// DeserializeProduct builds a new, unpersisted product from a mapping.
func DeserializeProduct(data map[string]interface{}) (*Product, error) {
	p := &Product{changes: NewChangeTracker()}
	if err := p.Deserialize(data); err != nil {
		return nil, err
	}
	return p, nil
}

// Deserialize overwrites the product attributes from a mapping. The id key
// is ignored: ids are only ever assigned by the store.
// On error the product is left unchanged.
func (p *Product) Deserialize(data map[string]interface{}) error {
	if data == nil {
		return fmt.Errorf("%w: body must be an object", ErrInvalidAttribute)
	}

	var payload productPayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &payload,
		TagName: "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAttribute, err)
	}

	if payload.Name == nil {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, KeyName)
	}
	if *payload.Name == "" {
		return ErrEmptyName
	}
	if payload.Available == nil {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, KeyAvailable)
	}
	if payload.Category == nil {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, KeyCategory)
	}
	category, err := ParseCategory(*payload.Category)
	if err != nil {
		return err
	}
	if payload.Price == nil {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, KeyPrice)
	}
	price, err := priceFromValue(payload.Price)
	if err != nil {
		return err
	}
	if err := price.Validate(); err != nil {
		return err
	}

	var description string
	if payload.Description != nil {
		description = *payload.Description
	}

	// All inputs are valid; the setters below cannot fail.
	_ = p.SetName(*payload.Name)
	p.SetDescription(description)
	_ = p.SetPrice(price)
	p.SetAvailable(*payload.Available)
	_ = p.SetCategory(category)
	return nil
}

// ParsePrice coerces a query-string price into Money.
func ParsePrice(s string) (Money, error) {
	return NewMoneyFromString(s)
}

func priceFromValue(v interface{}) (Money, error) {
	switch t := v.(type) {
	case string:
		return NewMoneyFromString(t)
	case json.Number:
		return NewMoneyFromString(t.String())
	case float64:
		return NewMoneyFromDecimal(decimal.NewFromFloat(t)), nil
	case float32:
		return NewMoneyFromDecimal(decimal.NewFromFloat32(t)), nil
	case int:
		return NewMoneyFromDecimal(decimal.NewFromInt(int64(t))), nil
	case int64:
		return NewMoneyFromDecimal(decimal.NewFromInt(t)), nil
	case decimal.Decimal:
		return NewMoneyFromDecimal(t), nil
	case Money:
		return t, nil
	default:
		return Money{}, fmt.Errorf("%w: %s must be a number or decimal string, got %T", ErrInvalidAttribute, KeyPrice, v)
	}
}
