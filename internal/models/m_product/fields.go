package m_product

// Field name constants for the products table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "products"

	ID          = "id"
	Name        = "name"
	Description = "description"
	Price       = "price"
	Available   = "available"
	Category    = "category"
)

// Columns lists every mapped column in select order.
var Columns = []string{
	ID,
	Name,
	Description,
	Price,
	Available,
	Category,
}

// WritableColumns are the columns a client-supplied product may set.
var WritableColumns = []string{
	Name,
	Description,
	Price,
	Available,
	Category,
}
