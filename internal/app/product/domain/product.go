package domain

import "fmt"

// Field names for change tracking
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldAvailable   = "available"
	FieldCategory    = "category"
)

// Product is the catalog entity.
// An id of 0 means the product has not been persisted yet.
type Product struct {
	id          int64
	name        string
	description string
	price       Money
	available   bool
	category    Category

	// Change tracking for optimized repository updates
	changes *ChangeTracker
}

// NewProduct creates a Product that has not been persisted yet.
func NewProduct(name, description string, price Money, available bool, category Category) (*Product, error) {
	p := &Product{
		name:        name,
		description: description,
		price:       price,
		available:   available,
		category:    category,
		changes:     NewChangeTracker(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Mark all fields as dirty for new product
	p.changes.MarkDirty(FieldName)
	p.changes.MarkDirty(FieldDescription)
	p.changes.MarkDirty(FieldPrice)
	p.changes.MarkDirty(FieldAvailable)
	p.changes.MarkDirty(FieldCategory)

	return p, nil
}

// ReconstructProduct reconstitutes a Product loaded from the database.
func ReconstructProduct(id int64, name, description string, price Money, available bool, category Category) *Product {
	return &Product{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		available:   available,
		category:    category,
		changes:     NewChangeTracker(), // Start with clean slate
	}
}

// Getters
func (p *Product) ID() int64               { return p.id }
func (p *Product) Name() string            { return p.name }
func (p *Product) Description() string     { return p.description }
func (p *Product) Price() Money            { return p.price }
func (p *Product) Available() bool         { return p.available }
func (p *Product) Category() Category      { return p.category }
func (p *Product) Changes() *ChangeTracker { return p.changes }

// HasID reports whether the product has been persisted.
func (p *Product) HasID() bool { return p.id != 0 }

// SetName updates the product name.
func (p *Product) SetName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if name != p.name {
		p.name = name
		p.changes.MarkDirty(FieldName)
	}
	return nil
}

// SetDescription updates the product description.
func (p *Product) SetDescription(description string) {
	if description != p.description {
		p.description = description
		p.changes.MarkDirty(FieldDescription)
	}
}

// SetPrice updates the product price.
func (p *Product) SetPrice(price Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	if !price.Equals(p.price) {
		p.price = price
		p.changes.MarkDirty(FieldPrice)
	}
	return nil
}

// SetAvailable updates the availability flag.
func (p *Product) SetAvailable(available bool) {
	if available != p.available {
		p.available = available
		p.changes.MarkDirty(FieldAvailable)
	}
}

// SetCategory updates the product category.
func (p *Product) SetCategory(category Category) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, int(category))
	}
	if category != p.category {
		p.category = category
		p.changes.MarkDirty(FieldCategory)
	}
	return nil
}

// Validate checks the invariants every persisted product must hold.
func (p *Product) Validate() error {
	if p.name == "" {
		return ErrEmptyName
	}
	if err := p.price.Validate(); err != nil {
		return err
	}
	if !p.category.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, int(p.category))
	}
	return nil
}

// CheckInsertable is called by repositories before inserting.
func (p *Product) CheckInsertable() error {
	if p.HasID() {
		return ErrAlreadyPersisted
	}
	return p.Validate()
}

// CheckUpdatable is called by repositories before updating.
func (p *Product) CheckUpdatable() error {
	if !p.HasID() {
		return ErrEmptyID
	}
	return p.Validate()
}

// AssignID records the store-assigned id after a successful insert and
// clears the dirty set.
func (p *Product) AssignID(id int64) {
	p.id = id
	p.changes.Clear()
}

// MarkPersisted clears the dirty set after a successful update.
func (p *Product) MarkPersisted() {
	p.changes.Clear()
}

// Equal compares every attribute, price by exact decimal value.
func (p *Product) Equal(other *Product) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.id == other.id &&
		p.name == other.name &&
		p.description == other.description &&
		p.price.Equals(other.price) &&
		p.available == other.available &&
		p.category == other.category
}

// String renders "<Product NAME id=[ID]>", with None before persistence.
func (p *Product) String() string {
	id := "None"
	if p.HasID() {
		id = fmt.Sprintf("%d", p.id)
	}
	return fmt.Sprintf("<Product %s id=[%s]>", p.name, id)
}
