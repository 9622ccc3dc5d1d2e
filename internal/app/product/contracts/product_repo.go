package contracts

import (
	"context"

	"github.com/light-bringer/procat-rest/internal/app/product/domain"
)

// ListFilter selects products by attribute. Nil fields do not filter;
// set fields are combined with AND. Limit and Offset page the ordered
// result; zero means no limit and no skip.
type ListFilter struct {
	Name      *string
	Category  *domain.Category
	Available *bool
	Price     *domain.Money

	Limit  int64
	Offset int64
}

// IsEmpty reports whether the filter matches every product. Paging is not
// considered.
func (f ListFilter) IsEmpty() bool {
	return f.Name == nil && f.Category == nil && f.Available == nil && f.Price == nil
}

// ProductRepository defines the interface for product persistence.
// Implementations exist for Spanner and Postgres; both must behave the same.
type ProductRepository interface {
	// Create inserts a product that has no id yet and assigns the id
	// generated by the store.
	Create(ctx context.Context, product *domain.Product) error

	// Update persists the dirty fields of a product that has an id.
	// Returns domain.ErrProductNotFound if no row has that id.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes the row. Deleting a missing id succeeds.
	Delete(ctx context.Context, id int64) error

	// GetByID returns domain.ErrProductNotFound when the row is absent.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// List returns matching products ordered by id.
	List(ctx context.Context, filter ListFilter) ([]*domain.Product, error)

	// Count returns the number of products matching the filter, ignoring
	// Limit and Offset.
	Count(ctx context.Context, filter ListFilter) (int64, error)

	// CheckSchema verifies every mapped column exists in the store.
	CheckSchema(ctx context.Context) error
}
