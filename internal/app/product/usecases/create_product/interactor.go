package create_product

import (
	"context"
	"fmt"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
)

// Request contains the decoded request body.
type Request struct {
	Data map[string]interface{}
}

// Interactor handles the create product use case.
type Interactor struct {
	repo contracts.ProductRepository
}

// NewInteractor creates a new create product interactor.
func NewInteractor(repo contracts.ProductRepository) *Interactor {
	return &Interactor{
		repo: repo,
	}
}

// Execute deserializes the payload into a new product and persists it.
// The returned product carries the id assigned by the store.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	product, err := domain.DeserializeProduct(req.Data)
	if err != nil {
		return nil, err
	}

	if err := i.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}
