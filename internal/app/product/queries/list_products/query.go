package list_products

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
)

// Request carries raw filter values; nil means the filter is not applied.
// Limit and Offset page the result; zero leaves it unpaged.
type Request struct {
	Name      *string
	Category  *string
	Available *string
	Price     *string

	Limit  int64
	Offset int64
}

// Result is a filtered product listing. Total counts every match, not
// just the returned page.
type Result struct {
	Products []*domain.Product
	Total    int64
}

// Query handles the list products query use case.
type Query struct {
	repo contracts.ProductRepository
}

// NewQuery creates a new list products query.
func NewQuery(repo contracts.ProductRepository) *Query {
	return &Query{
		repo: repo,
	}
}

// Execute parses the filters, combines them with AND and lists matches
// in id order.
func (q *Query) Execute(ctx context.Context, req *Request) (*Result, error) {
	filter, err := ParseFilter(req)
	if err != nil {
		return nil, err
	}

	products, err := q.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	total, err := q.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &Result{Products: products, Total: total}, nil
}

// All returns every product.
func (q *Query) All(ctx context.Context) ([]*domain.Product, error) {
	return q.repo.List(ctx, contracts.ListFilter{})
}

// FindByName returns products whose name matches exactly.
func (q *Query) FindByName(ctx context.Context, name string) ([]*domain.Product, error) {
	return q.repo.List(ctx, contracts.ListFilter{Name: &name})
}

// FindByCategory returns products in the category.
func (q *Query) FindByCategory(ctx context.Context, category domain.Category) ([]*domain.Product, error) {
	return q.repo.List(ctx, contracts.ListFilter{Category: &category})
}

// FindByAvailability returns products with the given availability.
func (q *Query) FindByAvailability(ctx context.Context, available bool) ([]*domain.Product, error) {
	return q.repo.List(ctx, contracts.ListFilter{Available: &available})
}

// FindByPrice returns products with exactly the given price. The price is
// parsed as a decimal string so "12.5" and "12.50" match the same rows.
func (q *Query) FindByPrice(ctx context.Context, price string) ([]*domain.Product, error) {
	m, err := domain.ParsePrice(price)
	if err != nil {
		return nil, err
	}
	return q.repo.List(ctx, contracts.ListFilter{Price: &m})
}

// ParseFilter converts raw query values into a ListFilter. Category labels
// match case-insensitively; available accepts the strconv.ParseBool spellings
// plus yes and no.
func ParseFilter(req *Request) (contracts.ListFilter, error) {
	var filter contracts.ListFilter
	if req == nil {
		return filter, nil
	}

	if req.Limit < 0 || req.Offset < 0 {
		return filter, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidAttribute)
	}
	filter.Limit = req.Limit
	filter.Offset = req.Offset

	if req.Name != nil {
		name := *req.Name
		filter.Name = &name
	}

	if req.Category != nil {
		c, err := domain.ParseCategoryFold(*req.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}

	if req.Available != nil {
		b, err := parseAvailable(*req.Available)
		if err != nil {
			return filter, err
		}
		filter.Available = &b
	}

	if req.Price != nil {
		m, err := domain.ParsePrice(strings.TrimSpace(*req.Price))
		if err != nil {
			return filter, err
		}
		filter.Price = &m
	}

	return filter, nil
}

func parseAvailable(s string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: available must be a boolean, got %q", domain.ErrInvalidAttribute, s)
	}
	return b, nil
}
