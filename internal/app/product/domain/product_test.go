package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	price := MustMoney("12.50")

	t.Run("valid product creation", func(t *testing.T) {
		p, err := NewProduct("Fedora", "A red hat", price, true, CategoryCloths)
		require.NoError(t, err)
		assert.Equal(t, int64(0), p.ID())
		assert.False(t, p.HasID())
		assert.Equal(t, "Fedora", p.Name())
		assert.Equal(t, "A red hat", p.Description())
		assert.True(t, p.Price().Equals(MustMoney("12.5")))
		assert.True(t, p.Available())
		assert.Equal(t, CategoryCloths, p.Category())
		assert.True(t, p.Changes().HasChanges())
	})

	t.Run("empty name returns error", func(t *testing.T) {
		_, err := NewProduct("", "A red hat", price, true, CategoryCloths)
		assert.ErrorIs(t, err, ErrEmptyName)
		assert.ErrorIs(t, err, ErrDataValidation)
	})

	t.Run("negative price returns error", func(t *testing.T) {
		_, err := NewProduct("Fedora", "", MustMoney("-1"), true, CategoryCloths)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("unknown category value returns error", func(t *testing.T) {
		_, err := NewProduct("Fedora", "", price, true, Category(42))
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestProduct_String(t *testing.T) {
	p, err := NewProduct("Fedora", "A red hat", MustMoney("12.50"), true, CategoryCloths)
	require.NoError(t, err)
	assert.Equal(t, "<Product Fedora id=[None]>", p.String())

	p.AssignID(42)
	assert.Equal(t, "<Product Fedora id=[42]>", p.String())
}

func TestProduct_CheckInsertable(t *testing.T) {
	p, _ := NewProduct("Fedora", "", MustMoney("1"), true, CategoryCloths)
	require.NoError(t, p.CheckInsertable())

	p.AssignID(7)
	assert.ErrorIs(t, p.CheckInsertable(), ErrAlreadyPersisted)
}

func TestProduct_CheckUpdatable(t *testing.T) {
	p, _ := NewProduct("Fedora", "", MustMoney("1"), true, CategoryCloths)
	err := p.CheckUpdatable()
	assert.ErrorIs(t, err, ErrEmptyID)
	assert.ErrorIs(t, err, ErrDataValidation)

	p.AssignID(7)
	assert.NoError(t, p.CheckUpdatable())
}

func TestProduct_SettersTrackChanges(t *testing.T) {
	p := ReconstructProduct(1, "Fedora", "A red hat", MustMoney("12.50"), true, CategoryCloths)
	assert.False(t, p.Changes().HasChanges())

	t.Run("same values are not dirty", func(t *testing.T) {
		require.NoError(t, p.SetName("Fedora"))
		p.SetDescription("A red hat")
		require.NoError(t, p.SetPrice(MustMoney("12.5")))
		p.SetAvailable(true)
		require.NoError(t, p.SetCategory(CategoryCloths))
		assert.False(t, p.Changes().HasChanges())
	})

	t.Run("changed values are dirty", func(t *testing.T) {
		p.SetDescription("A blue hat")
		p.SetAvailable(false)
		assert.Equal(t, []string{FieldAvailable, FieldDescription}, p.Changes().DirtyFields())
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		assert.ErrorIs(t, p.SetName(""), ErrEmptyName)
		assert.ErrorIs(t, p.SetPrice(MustMoney("1.234")), ErrInvalidPrice)
		assert.ErrorIs(t, p.SetCategory(Category(-1)), ErrInvalidCategory)
		assert.Equal(t, "Fedora", p.Name())
	})

	t.Run("mark persisted clears changes", func(t *testing.T) {
		p.MarkPersisted()
		assert.False(t, p.Changes().HasChanges())
		assert.Equal(t, int64(1), p.ID())
	})
}

func TestProduct_Equal(t *testing.T) {
	a := ReconstructProduct(1, "Fedora", "", MustMoney("12.50"), true, CategoryCloths)
	b := ReconstructProduct(1, "Fedora", "", MustMoney("12.5"), true, CategoryCloths)
	c := ReconstructProduct(2, "Fedora", "", MustMoney("12.5"), true, CategoryCloths)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
