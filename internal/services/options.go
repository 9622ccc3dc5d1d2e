package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/queries/get_product"
	"github.com/light-bringer/procat-rest/internal/app/product/queries/list_products"
	"github.com/light-bringer/procat-rest/internal/app/product/repo"
	"github.com/light-bringer/procat-rest/internal/app/product/usecases/create_product"
	"github.com/light-bringer/procat-rest/internal/app/product/usecases/delete_product"
	"github.com/light-bringer/procat-rest/internal/app/product/usecases/update_product"
	"github.com/light-bringer/procat-rest/internal/config"
	"github.com/light-bringer/procat-rest/internal/pkg/committer"
	"github.com/light-bringer/procat-rest/internal/transport/http/product"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Backend        config.Backend
	SpannerClient  *spanner.Client
	PostgresPool   *pgxpool.Pool
	ProductRepo    contracts.ProductRepository
	ProductHandler *product.Handler
}

// NewServiceOptions creates and wires up all application dependencies.
// The store is chosen from the database URI and its schema is verified
// before anything is served.
func NewServiceOptions(ctx context.Context, cfg config.Database, logger *zap.Logger) (*ServiceOptions, error) {
	backend, dsn, err := cfg.Backend()
	if err != nil {
		return nil, err
	}

	opts := &ServiceOptions{Backend: backend}

	// 1. Open the store and create the repository
	switch backend {
	case config.BackendPostgres:
		pool, err := newPostgresPool(ctx, dsn, cfg)
		if err != nil {
			return nil, err
		}
		opts.PostgresPool = pool
		opts.ProductRepo = repo.NewPostgresProductRepo(pool)

	case config.BackendSpanner:
		client, err := spanner.NewClient(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		opts.SpannerClient = client
		opts.ProductRepo = repo.NewSpannerProductRepo(client, committer.NewCommitter(client))
	}

	logger.Info("database connected", zap.String("backend", string(backend)))

	// 2. Verify the mapped columns exist
	if err := opts.ProductRepo.CheckSchema(ctx); err != nil {
		opts.Close()
		return nil, fmt.Errorf("schema check failed: %w", err)
	}

	opts.ProductHandler = NewProductHandler(opts.ProductRepo, logger)
	return opts, nil
}

// NewProductHandler wires the use cases and queries over repo.
func NewProductHandler(productRepo contracts.ProductRepository, logger *zap.Logger) *product.Handler {
	// Command use cases (write operations)
	createProductUseCase := create_product.NewInteractor(productRepo)
	updateProductUseCase := update_product.NewInteractor(productRepo)
	deleteProductUseCase := delete_product.NewInteractor(productRepo)

	// Query use cases (read operations)
	getProductQuery := get_product.NewQuery(productRepo)
	listProductsQuery := list_products.NewQuery(productRepo)

	return product.NewHandler(
		createProductUseCase,
		updateProductUseCase,
		deleteProductUseCase,
		getProductQuery,
		listProductsQuery,
		logger,
	)
}

func newPostgresPool(ctx context.Context, dsn string, cfg config.Database) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database uri: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
	if s.PostgresPool != nil {
		s.PostgresPool.Close()
	}
}
