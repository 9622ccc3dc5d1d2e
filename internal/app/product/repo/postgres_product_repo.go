package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
	"github.com/light-bringer/procat-rest/internal/models/m_product"
)

// SQLSTATE codes that signal bad input rather than a store failure.
const (
	pgCheckViolation    = "23514"
	pgNumericOutOfRange = "22003"
)

// pgColumns reads price as text so no precision is lost on the way to Money.
var pgColumns = []string{
	m_product.ID,
	m_product.Name,
	m_product.Description,
	m_product.Price + "::text",
	m_product.Available,
	m_product.Category,
}

// PostgresProductRepo implements ProductRepository for PostgreSQL.
type PostgresProductRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresProductRepo creates a new PostgresProductRepo.
func NewPostgresProductRepo(pool *pgxpool.Pool) contracts.ProductRepository {
	return &PostgresProductRepo{pool: pool}
}

func (r *PostgresProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if err := product.CheckInsertable(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s;
	`, m_product.TableName, strings.Join(m_product.WritableColumns, ", "), m_product.ID)

	var id int64
	err := r.pool.QueryRow(ctx, query,
		product.Name(),
		nullableText(product.Description()),
		product.Price().Decimal(),
		product.Available(),
		product.Category().String(),
	).Scan(&id)
	if err != nil {
		return mapPgError("failed to insert product", err)
	}

	product.AssignID(id)
	return nil
}

func (r *PostgresProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if err := product.CheckUpdatable(); err != nil {
		return err
	}

	changes := product.Changes()
	if !changes.HasChanges() {
		_, err := r.GetByID(ctx, product.ID())
		return err
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if changes.Dirty(domain.FieldName) {
		set(m_product.Name, product.Name())
	}
	if changes.Dirty(domain.FieldDescription) {
		set(m_product.Description, nullableText(product.Description()))
	}
	if changes.Dirty(domain.FieldPrice) {
		set(m_product.Price, product.Price().Decimal())
	}
	if changes.Dirty(domain.FieldAvailable) {
		set(m_product.Available, product.Available())
	}
	if changes.Dirty(domain.FieldCategory) {
		set(m_product.Category, product.Category().String())
	}

	args = append(args, product.ID())
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		m_product.TableName, strings.Join(sets, ", "), m_product.ID, len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError("failed to update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	product.MarkPersisted()
	return nil
}

// Delete removes the row. A missing id is not an error.
func (r *PostgresProductRepo) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", m_product.TableName, m_product.ID)
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(pgColumns, ", "), m_product.TableName, m_product.ID)

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *PostgresProductRepo) List(ctx context.Context, filter contracts.ListFilter) ([]*domain.Product, error) {
	sql, args := selectProducts(pgColumns, filter, postgresPrice).BuildPostgres()

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

func (r *PostgresProductRepo) Count(ctx context.Context, filter contracts.ListFilter) (int64, error) {
	sql, args := selectProducts(pgColumns, filter, postgresPrice).Count().BuildPostgres()

	var count int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *PostgresProductRepo) CheckSchema(ctx context.Context) error {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1;
	`

	rows, err := r.pool.Query(ctx, query, m_product.TableName)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	return checkColumns(found)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		id          int64
		name        string
		description *string
		price       string
		available   bool
		category    string
	)
	if err := row.Scan(&id, &name, &description, &price, &available, &category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	money, err := domain.NewMoneyFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid price for product %d: %w", id, err)
	}

	var desc string
	if description != nil {
		desc = *description
	}

	return toDomain(id, name, desc, money, available, category)
}

func postgresPrice(m domain.Money) interface{} {
	return m.Decimal()
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mapPgError turns constraint and range failures into validation errors.
func mapPgError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrDataValidation, pgErr.ConstraintName)
		case pgNumericOutOfRange:
			return fmt.Errorf("%w: %s", domain.ErrInvalidPrice, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
