package repo

import (
	"fmt"
	"strings"

	"github.com/light-bringer/procat-rest/internal/app/product/contracts"
	"github.com/light-bringer/procat-rest/internal/app/product/domain"
	"github.com/light-bringer/procat-rest/internal/models/m_product"
	"github.com/light-bringer/procat-rest/internal/pkg/query"
)

// selectProducts builds the list query shared by both stores. priceArg
// converts the filter price into the driver's NUMERIC parameter type.
func selectProducts(columns []string, filter contracts.ListFilter, priceArg func(domain.Money) interface{}) *query.Builder {
	b := query.From(m_product.TableName).Select(columns...)

	if filter.Name != nil {
		b = b.Where(query.Eq(m_product.Name, *filter.Name))
	}
	if filter.Category != nil {
		b = b.Where(query.Eq(m_product.Category, filter.Category.String()))
	}
	if filter.Available != nil {
		b = b.Where(query.Eq(m_product.Available, *filter.Available))
	}
	if filter.Price != nil {
		b = b.Where(query.Eq(m_product.Price, priceArg(*filter.Price)))
	}

	b = b.OrderBy(m_product.ID, query.Asc)
	if filter.Limit > 0 {
		b = b.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		b = b.Offset(filter.Offset)
	}
	return b
}

// checkColumns compares the columns found in information_schema against
// the mapped columns.
func checkColumns(found []string) error {
	have := make(map[string]bool, len(found))
	for _, c := range found {
		have[strings.ToLower(c)] = true
	}

	var missing []string
	for _, c := range m_product.Columns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", m_product.TableName, strings.Join(missing, ", "))
	}
	return nil
}

// toDomain validates a stored row while rebuilding the entity.
func toDomain(id int64, name, description string, price domain.Money, available bool, category string) (*domain.Product, error) {
	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return domain.ReconstructProduct(id, name, description, price, available, c), nil
}
