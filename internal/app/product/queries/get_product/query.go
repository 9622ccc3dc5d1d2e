package get_product

import (
	"context"
	"errors"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
)

// Request contains the product ID to retrieve.
type Request struct {
	ProductID int64
}

// Query handles the get product query use case.
type Query struct {
	repo contracts.ProductRepository
}

// NewQuery creates a new get product query.
func NewQuery(repo contracts.ProductRepository) *Query {
	return &Query{
		repo: repo,
	}
}

// Execute retrieves a product by ID, failing with ErrProductNotFound.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	return q.repo.GetByID(ctx, req.ProductID)
}

// Find returns the product or nil when no row has the id.
func (q *Query) Find(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := q.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}
