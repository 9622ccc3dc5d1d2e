package repo

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
	"github.com/light-bringer/procat-rest/internal/models/m_product"
	"github.com/light-bringer/procat-rest/internal/pkg/committer"
)

// SpannerProductRepo implements ProductRepository for Spanner.
type SpannerProductRepo struct {
	client    *spanner.Client
	committer *committer.Committer
	model     *m_product.Model
}

// NewSpannerProductRepo creates a new SpannerProductRepo.
func NewSpannerProductRepo(client *spanner.Client, comm *committer.Committer) contracts.ProductRepository {
	return &SpannerProductRepo{
		client:    client,
		committer: comm,
		model:     m_product.NewModel(),
	}
}

// Create inserts the product and reads back the identity value.
func (r *SpannerProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if err := product.CheckInsertable(); err != nil {
		return err
	}

	stmt := r.model.InsertStmt(domainToData(product))

	var id int64
	err := r.committer.ReadWrite(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		iter := txn.Query(ctx, stmt)
		defer iter.Stop()

		row, err := iter.Next()
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
		return row.Column(0, &id)
	})
	if err != nil {
		return mapSpannerWriteError(err)
	}

	product.AssignID(id)
	return nil
}

// Update writes only the dirty columns.
func (r *SpannerProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if err := product.CheckUpdatable(); err != nil {
		return err
	}

	changes := product.Changes()
	if !changes.HasChanges() {
		// Nothing to write, but a missing row must still be reported.
		_, err := r.GetByID(ctx, product.ID())
		return err
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldName) {
		updates[m_product.Name] = product.Name()
	}
	if changes.Dirty(domain.FieldDescription) {
		updates[m_product.Description] = nullString(product.Description())
	}
	if changes.Dirty(domain.FieldPrice) {
		updates[m_product.Price] = product.Price().Rat()
	}
	if changes.Dirty(domain.FieldAvailable) {
		updates[m_product.Available] = product.Available()
	}
	if changes.Dirty(domain.FieldCategory) {
		updates[m_product.Category] = product.Category().String()
	}

	plan := committer.NewPlan()
	plan.Add(r.model.UpdateMut(product.ID(), updates))

	if err := r.committer.Apply(ctx, plan); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrProductNotFound
		}
		return mapSpannerWriteError(err)
	}

	product.MarkPersisted()
	return nil
}

// Delete removes the row; Spanner delete mutations ignore missing keys.
func (r *SpannerProductRepo) Delete(ctx context.Context, id int64) error {
	plan := committer.NewPlan()
	plan.Add(r.model.DeleteMut(id))
	return r.committer.Apply(ctx, plan)
}

// GetByID retrieves a product by ID.
func (r *SpannerProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return dataToDomain(&data)
}

// List returns matching products ordered by id.
func (r *SpannerProductRepo) List(ctx context.Context, filter contracts.ListFilter) ([]*domain.Product, error) {
	stmt := selectProducts(m_product.Columns, filter, spannerPrice).Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*domain.Product, 0)
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		product, err := dataToDomain(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

// Count returns the number of matching products.
func (r *SpannerProductRepo) Count(ctx context.Context, filter contracts.ListFilter) (int64, error) {
	stmt := selectProducts(m_product.Columns, filter, spannerPrice).Count().Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	var count int64
	if err := row.Columns(&count); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}
	return count, nil
}

// CheckSchema verifies the mapped columns against information_schema.
func (r *SpannerProductRepo) CheckSchema(ctx context.Context) error {
	stmt := spanner.Statement{
		SQL:    "SELECT column_name FROM information_schema.columns WHERE table_schema = '' AND table_name = @table",
		Params: map[string]interface{}{"table": m_product.TableName},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var found []string
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}
		var name string
		if err := row.Columns(&name); err != nil {
			return fmt.Errorf("failed to parse column name: %w", err)
		}
		found = append(found, name)
	}

	return checkColumns(found)
}

func spannerPrice(m domain.Money) interface{} {
	return m.Rat()
}

func nullString(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}

// domainToData converts a domain Product to database Data.
func domainToData(product *domain.Product) *m_product.Data {
	data := &m_product.Data{
		ID:          product.ID(),
		Name:        product.Name(),
		Description: nullString(product.Description()),
		Available:   product.Available(),
		Category:    product.Category().String(),
	}
	data.Price.Set(product.Price().Rat())
	return data
}

// dataToDomain converts database Data to a domain Product.
func dataToDomain(data *m_product.Data) (*domain.Product, error) {
	price, err := domain.NewMoneyFromRat(&data.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price for product %d: %w", data.ID, err)
	}
	return toDomain(data.ID, data.Name, data.Description.StringVal, price, data.Available, data.Category)
}

// mapSpannerWriteError turns rejected column values into validation errors.
// Every other column is checked by the domain before writing, so only the
// price can still fall outside NUMERIC's range.
func mapSpannerWriteError(err error) error {
	switch spanner.ErrCode(err) {
	case codes.InvalidArgument, codes.OutOfRange:
		return fmt.Errorf("%w: %s", domain.ErrInvalidPrice, spanner.ErrDesc(err))
	}
	return err
}
