package domain

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validData() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Fedora",
		"description": "A red hat",
		"price":       "12.50",
		"available":   true,
		"category":    "CLOTHS",
	}
}

func TestProduct_Serialize(t *testing.T) {
	p := ReconstructProduct(3, "Fedora", "A red hat", MustMoney("12.5"), true, CategoryCloths)

	assert.Equal(t, map[string]interface{}{
		"id":          int64(3),
		"name":        "Fedora",
		"description": "A red hat",
		"price":       "12.50",
		"available":   true,
		"category":    "CLOTHS",
	}, p.Serialize())
}

func TestProduct_SerializeBeforePersistence(t *testing.T) {
	p, err := NewProduct("Fedora", "", MustMoney("1"), false, CategoryFood)
	require.NoError(t, err)
	assert.Nil(t, p.Serialize()["id"])
}

func TestDeserializeProduct(t *testing.T) {
	p, err := DeserializeProduct(validData())
	require.NoError(t, err)
	assert.Equal(t, "Fedora", p.Name())
	assert.Equal(t, "A red hat", p.Description())
	assert.True(t, p.Price().Equals(MustMoney("12.5")))
	assert.True(t, p.Available())
	assert.Equal(t, CategoryCloths, p.Category())
	assert.False(t, p.HasID())
}

func TestDeserializeProduct_IgnoresID(t *testing.T) {
	data := validData()
	data["id"] = 99
	p, err := DeserializeProduct(data)
	require.NoError(t, err)
	assert.False(t, p.HasID())
}

func TestDeserializeProduct_PriceTypes(t *testing.T) {
	for name, v := range map[string]interface{}{
		"string":      "12.50",
		"json number": json.Number("12.50"),
		"float":       12.5,
		"int":         12,
	} {
		t.Run(name, func(t *testing.T) {
			data := validData()
			data["price"] = v
			p, err := DeserializeProduct(data)
			require.NoError(t, err)
			assert.False(t, p.Price().IsZero())
		})
	}
}

func TestDeserializeProduct_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		want   error
	}{
		{"missing name", func(d map[string]interface{}) { delete(d, "name") }, ErrMissingAttribute},
		{"empty name", func(d map[string]interface{}) { d["name"] = "" }, ErrEmptyName},
		{"name wrong type", func(d map[string]interface{}) { d["name"] = 12 }, ErrInvalidAttribute},
		{"missing price", func(d map[string]interface{}) { delete(d, "price") }, ErrMissingAttribute},
		{"non numeric price", func(d map[string]interface{}) { d["price"] = "abc" }, ErrInvalidPrice},
		{"price wrong type", func(d map[string]interface{}) { d["price"] = true }, ErrInvalidAttribute},
		{"missing available", func(d map[string]interface{}) { delete(d, "available") }, ErrMissingAttribute},
		{"available as string", func(d map[string]interface{}) { d["available"] = "yes" }, ErrInvalidAttribute},
		{"missing category", func(d map[string]interface{}) { delete(d, "category") }, ErrMissingAttribute},
		{"unknown category", func(d map[string]interface{}) { d["category"] = "WEAPONS" }, ErrInvalidCategory},
		{"lower case category", func(d map[string]interface{}) { d["category"] = "cloths" }, ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validData()
			tt.mutate(data)
			_, err := DeserializeProduct(data)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrDataValidation)
		})
	}

	t.Run("nil mapping", func(t *testing.T) {
		_, err := DeserializeProduct(nil)
		assert.ErrorIs(t, err, ErrDataValidation)
	})
}

func TestProduct_DeserializeLeavesProductOnError(t *testing.T) {
	p := ReconstructProduct(5, "Fedora", "A red hat", MustMoney("12.50"), true, CategoryCloths)
	data := validData()
	data["name"] = "Bowler"
	data["category"] = "NOPE"

	require.Error(t, p.Deserialize(data))
	assert.Equal(t, "Fedora", p.Name())
	assert.False(t, p.Changes().HasChanges())
}

func TestProduct_DeserializeMarksOnlyChangedFields(t *testing.T) {
	p := ReconstructProduct(5, "Fedora", "A red hat", MustMoney("12.50"), true, CategoryCloths)
	data := validData()
	data["description"] = "New description of product"

	require.NoError(t, p.Deserialize(data))
	assert.Equal(t, []string{FieldDescription}, p.Changes().DirtyFields())
	assert.Equal(t, int64(5), p.ID())
}

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	categories := Categories()

	for i := 0; i < 50; i++ {
		price := MustMoney(fmt.Sprintf("%d.%02d", rng.Intn(10000), rng.Intn(100)))
		original, err := NewProduct(
			fmt.Sprintf("product-%d", i),
			fmt.Sprintf("description %d", rng.Int()),
			price,
			rng.Intn(2) == 0,
			categories[rng.Intn(len(categories))],
		)
		require.NoError(t, err)

		restored, err := DeserializeProduct(original.Serialize())
		require.NoError(t, err)
		assert.True(t, original.Equal(restored), "round trip mismatch for %s", original)
	}
}
