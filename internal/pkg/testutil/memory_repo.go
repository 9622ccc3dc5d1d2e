package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
)

// MemoryProductRepo is an in-memory ProductRepository for unit tests.
// Stored products are copies, so callers cannot mutate rows in place.
type MemoryProductRepo struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64

	// Err, when set, is returned by every operation.
	Err error
}

// NewMemoryProductRepo creates an empty repository.
func NewMemoryProductRepo() *MemoryProductRepo {
	return &MemoryProductRepo{
		products: make(map[int64]*domain.Product),
		nextID:   1,
	}
}

var _ contracts.ProductRepository = (*MemoryProductRepo)(nil)

func (r *MemoryProductRepo) Create(_ context.Context, product *domain.Product) error {
	if r.Err != nil {
		return r.Err
	}
	if err := product.CheckInsertable(); err != nil {
		return err
	}
	if err := product.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	product.AssignID(id)
	r.products[id] = clone(product)
	return nil
}

func (r *MemoryProductRepo) Update(_ context.Context, product *domain.Product) error {
	if r.Err != nil {
		return r.Err
	}
	if err := product.CheckUpdatable(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID()]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[product.ID()] = clone(product)
	product.MarkPersisted()
	return nil
}

func (r *MemoryProductRepo) Delete(_ context.Context, id int64) error {
	if r.Err != nil {
		return r.Err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

func (r *MemoryProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return clone(p), nil
}

func (r *MemoryProductRepo) List(_ context.Context, filter contracts.ListFilter) ([]*domain.Product, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Product, 0)
	for _, p := range r.products {
		if matches(p, filter) {
			result = append(result, clone(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return page(result, filter.Limit, filter.Offset), nil
}

func (r *MemoryProductRepo) Count(ctx context.Context, filter contracts.ListFilter) (int64, error) {
	filter.Limit, filter.Offset = 0, 0
	products, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(products)), nil
}

func (r *MemoryProductRepo) CheckSchema(context.Context) error {
	return r.Err
}

// Len returns the number of stored products.
func (r *MemoryProductRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

func matches(p *domain.Product, f contracts.ListFilter) bool {
	if f.IsEmpty() {
		return true
	}
	if f.Name != nil && p.Name() != *f.Name {
		return false
	}
	if f.Category != nil && p.Category() != *f.Category {
		return false
	}
	if f.Available != nil && p.Available() != *f.Available {
		return false
	}
	if f.Price != nil && !p.Price().Equals(*f.Price) {
		return false
	}
	return true
}

func page(products []*domain.Product, limit, offset int64) []*domain.Product {
	if offset >= int64(len(products)) {
		return products[:0]
	}
	products = products[offset:]
	if limit > 0 && limit < int64(len(products)) {
		products = products[:limit]
	}
	return products
}

func clone(p *domain.Product) *domain.Product {
	return domain.ReconstructProduct(p.ID(), p.Name(), p.Description(), p.Price(), p.Available(), p.Category())
}
