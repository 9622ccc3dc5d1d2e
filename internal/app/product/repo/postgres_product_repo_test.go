//go:build integration

package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/light-bringer/procat-rest/internal/app/product/domain"
	"github.com/light-bringer/procat-rest/internal/app/product/repo"
	"github.com/light-bringer/procat-rest/internal/pkg/testutil"
)

func TestPostgresProductRepo(t *testing.T) {
	pool, cleanup := testutil.SetupPostgresTest(t)
	defer cleanup()

	suite.Run(t, &repositorySuite{
		repo:  repo.NewPostgresProductRepo(pool),
		reset: func() { testutil.TruncateProducts(t, pool) },
	})
}

func TestPostgresProductRepo_CheckConstraints(t *testing.T) {
	pool, cleanup := testutil.SetupPostgresTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pool.Exec(ctx,
		"INSERT INTO products (name, price, available, category) VALUES ('Bad', 1, true, 'WEAPONS')")
	require.Error(t, err, "category check must reject unknown labels")

	_, err = pool.Exec(ctx,
		"INSERT INTO products (name, price, available, category) VALUES ('Bad', -1, true, 'FOOD')")
	require.Error(t, err, "price check must reject negatives")

	_, err = repo.NewPostgresProductRepo(pool).GetByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPostgresProductRepo_CheckSchemaDetectsDrift(t *testing.T) {
	pool, cleanup := testutil.SetupPostgresTest(t)
	defer cleanup()

	ctx := context.Background()
	_, err := pool.Exec(ctx, "ALTER TABLE products DROP COLUMN available")
	require.NoError(t, err)

	err = repo.NewPostgresProductRepo(pool).CheckSchema(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available")
}
