package m_product

import (
	"fmt"
	"sort"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertStmt builds the DML insert. Spanner assigns the id from the
// identity column, so it is read back with THEN RETURN.
func (m *Model) InsertStmt(data *Data) spanner.Statement {
	return spanner.Statement{
		SQL: fmt.Sprintf(
			"INSERT INTO %s (%s, %s, %s, %s, %s) VALUES (@name, @description, @price, @available, @category) THEN RETURN %s",
			TableName, Name, Description, Price, Available, Category, ID,
		),
		Params: map[string]interface{}{
			"name":        data.Name,
			"description": data.Description,
			"price":       &data.Price,
			"available":   data.Available,
			"category":    data.Category,
		},
	}
}

// UpdateMut creates a Spanner mutation for updating specific product fields.
// The updates map should contain column names as keys and new values.
// Spanner rejects the mutation with NotFound when the row does not exist.
func (m *Model) UpdateMut(id int64, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	// Add product ID first
	columns = append(columns, ID)
	values = append(values, id)

	// Deterministic column order keeps mutations comparable in tests.
	keys := make([]string, 0, len(updates))
	for col := range updates {
		keys = append(keys, col)
	}
	sort.Strings(keys)
	for _, col := range keys {
		columns = append(columns, col)
		values = append(values, updates[col])
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a product.
// Deleting a missing key is not an error.
func (m *Model) DeleteMut(id int64) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{id})
}
