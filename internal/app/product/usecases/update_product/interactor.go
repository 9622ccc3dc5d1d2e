package update_product

import (
	"context"
	"fmt"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
)

// Request contains the target id and the replacement attributes.
type Request struct {
	ProductID int64
	Data      map[string]interface{}
}

// Interactor handles the update product use case.
type Interactor struct {
	repo contracts.ProductRepository
}

// NewInteractor creates a new update product interactor.
func NewInteractor(repo contracts.ProductRepository) *Interactor {
	return &Interactor{
		repo: repo,
	}
}

// Execute loads the product, applies the payload and writes the changed
// columns. Any id in the payload is ignored.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	// 1. Load aggregate
	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	// 2. Apply attributes
	if err := product.Deserialize(req.Data); err != nil {
		return nil, err
	}

	// 3. Persist dirty fields
	if err := i.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}
