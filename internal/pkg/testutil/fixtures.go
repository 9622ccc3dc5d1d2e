package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
)

// NewFedora returns the unpersisted product used across scenarios.
func NewFedora(t *testing.T) *domain.Product {
	t.Helper()

	p, err := domain.NewProduct("Fedora", "A red hat", domain.MustMoney("12.50"), true, domain.CategoryCloths)
	require.NoError(t, err, "failed to build fedora")
	return p
}

// RandomProduct builds a valid unpersisted product from rng.
func RandomProduct(t *testing.T, rng *rand.Rand) *domain.Product {
	t.Helper()

	categories := domain.Categories()
	p, err := domain.NewProduct(
		fmt.Sprintf("product-%d", rng.Intn(1_000_000)),
		fmt.Sprintf("description %d", rng.Int()),
		domain.MustMoney(fmt.Sprintf("%d.%02d", rng.Intn(10000), rng.Intn(100))),
		rng.Intn(2) == 0,
		categories[rng.Intn(len(categories))],
	)
	require.NoError(t, err, "failed to build random product")
	return p
}

// CreateProducts persists n random products and returns them in id order.
func CreateProducts(t *testing.T, repo contracts.ProductRepository, rng *rand.Rand, n int) []*domain.Product {
	t.Helper()

	ctx := context.Background()
	products := make([]*domain.Product, 0, n)
	for i := 0; i < n; i++ {
		p := RandomProduct(t, rng)
		require.NoError(t, repo.Create(ctx, p), "failed to create test product")
		products = append(products, p)
	}
	return products
}
