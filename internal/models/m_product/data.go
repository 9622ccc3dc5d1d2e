package m_product

import (
	"math/big"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
type Data struct {
	ID          int64              `spanner:"id"`
	Name        string             `spanner:"name"`
	Description spanner.NullString `spanner:"description"`
	Price       big.Rat            `spanner:"price"`
	Available   bool               `spanner:"available"`
	Category    string             `spanner:"category"`
}
